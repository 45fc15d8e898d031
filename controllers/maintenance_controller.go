package controllers

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
)

// MaintenanceController 所有路由都在 TechnicianOnly 之后
type MaintenanceController struct{ *Srv }

func NewMaintenanceController(s *Srv) *MaintenanceController {
	return &MaintenanceController{Srv: s}
}

// GET /api/maintenance?deviceId=
func (mc *MaintenanceController) List(c *gin.Context) {
	deviceID, ok := queryID(c, "deviceId")
	if !ok {
		return
	}
	ms, err := mc.Svc.ListMaintenance(c.Request.Context(), deviceID)
	if err != nil {
		mc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ms})
}

// GET /api/maintenance/:id
func (mc *MaintenanceController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := mc.Svc.GetMaintenance(c.Request.Context(), id)
	if err != nil {
		mc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/maintenance：未指定 staffId 时记到当前技术员名下
func (mc *MaintenanceController) Create(c *gin.Context) {
	var in services.CreateMaintenanceInput
	if !bindJSON(c, &in) {
		return
	}
	if in.StaffID == 0 {
		if me, ok := app.StaffID(c); ok {
			in.StaffID = me
		}
	}
	m, err := mc.Svc.CreateMaintenance(c.Request.Context(), in, actor(c))
	if err != nil {
		mc.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// PUT /api/maintenance/:id
func (mc *MaintenanceController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p services.MaintenancePatch
	if !bindJSON(c, &p) {
		return
	}
	m, err := mc.Svc.UpdateMaintenance(c.Request.Context(), id, p, actor(c))
	if err != nil {
		mc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /api/maintenance/:id
func (mc *MaintenanceController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Svc.DeleteMaintenance(c.Request.Context(), id, actor(c)); err != nil {
		mc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
