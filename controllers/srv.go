// controllers/srv.go
package controllers

import (
	"strconv"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/config"
	"Gin_postgres_redis_equipment_rent/events"
	"Gin_postgres_redis_equipment_rent/services"
	"Gin_postgres_redis_equipment_rent/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	Svc       *services.Service
	AppSess   *session.AppSessionStore
	Publisher *events.RedisPublisher
	Cfg       *config.Config
	Log       *zap.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Svc:       a.Service,
		AppSess:   a.Sessions,
		Publisher: a.Events,
		Cfg:       a.Config,
		Log:       a.Log.Named("controllers"),
	}
}

// --- helpers ---

// pathID 解析路径里的数字 id；非法时直接写 400
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badField(c, name, "must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// queryID 可选的数字查询参数，缺省返回 0
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badField(c, name, "must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// actor 当前登录员工 id，用于状态日志
func actor(c *gin.Context) *uint {
	id, ok := app.StaffID(c)
	if !ok {
		return nil
	}
	return &id
}
