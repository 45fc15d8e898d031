package controllers

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
)

type DepartmentController struct{ *Srv }

func NewDepartmentController(s *Srv) *DepartmentController { return &DepartmentController{Srv: s} }

// GET /api/departments
func (dc *DepartmentController) List(c *gin.Context) {
	ds, err := dc.Svc.ListDepartments(c.Request.Context())
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ds})
}

// GET /api/departments/:id
func (dc *DepartmentController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := dc.Svc.GetDepartment(c.Request.Context(), id)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/departments
func (dc *DepartmentController) Create(c *gin.Context) {
	var in services.DepartmentInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := dc.Svc.CreateDepartment(c.Request.Context(), in)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// PUT /api/departments/:id
func (dc *DepartmentController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p services.DepartmentPatch
	if !bindJSON(c, &p) {
		return
	}
	d, err := dc.Svc.UpdateDepartment(c.Request.Context(), id, p)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /api/departments/:id
func (dc *DepartmentController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := dc.Svc.DeleteDepartment(c.Request.Context(), id); err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
