package controllers

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StaffController struct{ *Srv }

func NewStaffController(s *Srv) *StaffController { return &StaffController{Srv: s} }

// GET /api/staff
func (sc *StaffController) List(c *gin.Context) {
	st, err := sc.Svc.ListStaff(c.Request.Context())
	if err != nil {
		sc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": st})
}

// GET /api/staff/:id
func (sc *StaffController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	st, err := sc.Svc.GetStaff(c.Request.Context(), id)
	if err != nil {
		sc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/staff
func (sc *StaffController) Create(c *gin.Context) {
	var in services.StaffInput
	if !bindJSON(c, &in) {
		return
	}
	st, err := sc.Svc.CreateStaff(c.Request.Context(), in)
	if err != nil {
		sc.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// PUT /api/staff/:id
func (sc *StaffController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p services.StaffPatch
	if !bindJSON(c, &p) {
		return
	}
	st, err := sc.Svc.UpdateStaff(c.Request.Context(), id, p)
	if err != nil {
		sc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DELETE /api/staff/:id
func (sc *StaffController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	// 不允许删除自己，避免锁死
	if me, ok := app.StaffID(c); ok && me == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}
	if err := sc.Svc.DeleteStaff(c.Request.Context(), id); err != nil {
		sc.respond(c, err)
		return
	}
	// 撤销该员工的所有登录会话
	if err := sc.AppSess.RevokeAllForStaff(c.Request.Context(), id); err != nil {
		sc.Log.Warn("revoke sessions", zap.Uint("staff_id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
