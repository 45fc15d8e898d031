package routes

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	deptCtl := controllers.NewDepartmentController(s)
	staffCtl := controllers.NewStaffController(s)
	deviceCtl := controllers.NewDeviceController(s)
	rentalCtl := controllers.NewRentalController(s)
	maintCtl := controllers.NewMaintenanceController(s)
	reportCtl := controllers.NewReportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Service, a.Sessions, a.Config, a.Log.Named("auth"))
	seenMW := app.TouchLastSeen(a.Service, a.RDB, a.Config.LastSeenThrottle(), a.Log.Named("seen"))
	techMW := app.TechnicianOnly()

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	api := r.Group("/api", authMW, seenMW)

	auth := api.Group("/auth")
	{
		auth.GET("/me", authCtl.Me)
		auth.POST("/logout", authCtl.Logout)
	}

	depts := api.Group("/departments")
	{
		depts.GET("", deptCtl.List)
		depts.POST("", deptCtl.Create)
		depts.GET("/:id", deptCtl.Get)
		depts.PUT("/:id", deptCtl.Update)
		depts.DELETE("/:id", deptCtl.Delete)
	}

	staff := api.Group("/staff")
	{
		staff.GET("", staffCtl.List)
		staff.POST("", staffCtl.Create)
		staff.GET("/:id", staffCtl.Get)
		staff.PUT("/:id", staffCtl.Update)
		staff.DELETE("/:id", staffCtl.Delete)
	}

	devices := api.Group("/devices")
	{
		devices.GET("", deviceCtl.List) // ?status=
		devices.POST("", deviceCtl.Create)
		devices.GET("/events", deviceCtl.StatusStream) // SSE
		devices.GET("/:id", deviceCtl.Get)
		devices.PUT("/:id", deviceCtl.Update)
		devices.DELETE("/:id", deviceCtl.Delete)
		devices.GET("/:id/status-log", deviceCtl.StatusLog)
	}

	// 借还
	rentals := api.Group("/rentals")
	{
		rentals.GET("", rentalCtl.List) // ?active=true&deviceId=&staffId=
		rentals.POST("", rentalCtl.Create)
		rentals.GET("/:id", rentalCtl.Get)
		rentals.POST("/:id/return", rentalCtl.Return)
	}

	// 维护（仅技术员）
	maint := api.Group("/maintenance", techMW)
	{
		maint.GET("", maintCtl.List)
		maint.POST("", maintCtl.Create)
		maint.GET("/:id", maintCtl.Get)
		maint.PUT("/:id", maintCtl.Update)
		maint.DELETE("/:id", maintCtl.Delete)
	}

	rep := api.Group("/reports")
	{
		rep.GET("/currently-rented", reportCtl.CurrentlyRented)
		rep.GET("/maintenance-needed", reportCtl.MaintenanceNeeded)
		rep.GET("/maintenance-history", reportCtl.MaintenanceHistory) // ?deviceId=
		rep.GET("/:name/export", reportCtl.Export)
	}

	api.GET("/dashboard/stats", reportCtl.DashboardStats)
}
