package controllers

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
)

type RentalController struct{ *Srv }

func NewRentalController(s *Srv) *RentalController { return &RentalController{Srv: s} }

// GET /api/rentals?active=true&deviceId=&staffId=
func (rc *RentalController) List(c *gin.Context) {
	deviceID, ok := queryID(c, "deviceId")
	if !ok {
		return
	}
	staffID, ok := queryID(c, "staffId")
	if !ok {
		return
	}
	rs, err := rc.Svc.ListRentals(c.Request.Context(), services.RentalFilter{
		ActiveOnly: c.Query("active") == "true",
		DeviceID:   deviceID,
		StaffID:    staffID,
	})
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rs})
}

// GET /api/rentals/:id
func (rc *RentalController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := rc.Svc.GetRental(c.Request.Context(), id)
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /api/rentals：借出，时间段与已有 Active 借用重叠返回 409
func (rc *RentalController) Create(c *gin.Context) {
	var in services.CreateRentalInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := rc.Svc.CreateRental(c.Request.Context(), in, actor(c))
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// POST /api/rentals/:id/return
func (rc *RentalController) Return(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := rc.Svc.ReturnRental(c.Request.Context(), id, actor(c))
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
