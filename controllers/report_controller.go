package controllers

import (
	"fmt"
	"net/http"
	"time"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/reports"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/currently-rented
func (rc *ReportController) CurrentlyRented(c *gin.Context) {
	rows, err := rc.Svc.CurrentlyRented(c.Request.Context())
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/maintenance-needed
func (rc *ReportController) MaintenanceNeeded(c *gin.Context) {
	rows, err := rc.Svc.DevicesNeedingMaintenance(c.Request.Context())
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/maintenance-history?deviceId=
func (rc *ReportController) MaintenanceHistory(c *gin.Context) {
	deviceID, ok := queryID(c, "deviceId")
	if !ok {
		return
	}
	rows, err := rc.Svc.MaintenanceHistory(c.Request.Context(), deviceID)
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/:name/export 下载 xlsx
func (rc *ReportController) Export(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	var sheet reports.Sheet
	switch name {
	case "currently-rented":
		rows, err := rc.Svc.CurrentlyRented(ctx)
		if err != nil {
			rc.respond(c, err)
			return
		}
		sheet = reports.CurrentlyRentedSheet(rows)
	case "maintenance-needed":
		rows, err := rc.Svc.DevicesNeedingMaintenance(ctx)
		if err != nil {
			rc.respond(c, err)
			return
		}
		sheet = reports.MaintenanceNeededSheet(rows)
	case "maintenance-history":
		deviceID, ok := queryID(c, "deviceId")
		if !ok {
			return
		}
		rows, err := rc.Svc.MaintenanceHistory(ctx, deviceID)
		if err != nil {
			rc.respond(c, err)
			return
		}
		sheet = reports.MaintenanceHistorySheet(rows)
	default:
		c.JSON(http.StatusNotFound, app.H{"error": fmt.Sprintf("unknown report %q", name)})
		return
	}

	data, err := reports.Build(sheet)
	if err != nil {
		rc.respond(c, err)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GET /api/dashboard/stats
func (rc *ReportController) DashboardStats(c *gin.Context) {
	stats, err := rc.Svc.DashboardStats(c.Request.Context())
	if err != nil {
		rc.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
