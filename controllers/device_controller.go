package controllers

import (
	"io"
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DeviceController struct{ *Srv }

func NewDeviceController(s *Srv) *DeviceController { return &DeviceController{Srv: s} }

// GET /api/devices?status=Available
func (dc *DeviceController) List(c *gin.Context) {
	ds, err := dc.Svc.ListDevices(c.Request.Context(), models.DeviceStatus(c.Query("status")))
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ds})
}

// GET /api/devices/events
// 以 SSE 推送设备状态变更（通知中心），连接断开时退订
func (dc *DeviceController) StatusStream(c *gin.Context) {
	stream, err := dc.Publisher.Subscribe(c.Request.Context())
	if err != nil {
		dc.respond(c, err)
		return
	}
	var staffID uint
	if id := actor(c); id != nil {
		staffID = *id
	}
	dc.Log.Debug("status stream opened",
		zap.String("channel", dc.Publisher.Channel()),
		zap.Uint("staff_id", staffID))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-stream
		if !ok {
			return false
		}
		c.SSEvent("status", ev)
		return true
	})
}

// GET /api/devices/:id
func (dc *DeviceController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := dc.Svc.GetDevice(c.Request.Context(), id)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/devices：状态总是 Available
func (dc *DeviceController) Create(c *gin.Context) {
	var in services.DeviceInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := dc.Svc.CreateDevice(c.Request.Context(), in)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// PUT /api/devices/:id：body 里带 status 会被当作未知字段拒绝
func (dc *DeviceController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p services.DevicePatch
	if !bindJSON(c, &p) {
		return
	}
	d, err := dc.Svc.UpdateDevice(c.Request.Context(), id, p)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /api/devices/:id
func (dc *DeviceController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := dc.Svc.DeleteDevice(c.Request.Context(), id); err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/devices/:id/status-log
func (dc *DeviceController) StatusLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	logs, err := dc.Svc.DeviceStatusLog(c.Request.Context(), id)
	if err != nil {
		dc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": logs})
}
