package app

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"Gin_postgres_redis_equipment_rent/config"
	"Gin_postgres_redis_equipment_rent/db"
	"Gin_postgres_redis_equipment_rent/events"
	"Gin_postgres_redis_equipment_rent/services"
	"Gin_postgres_redis_equipment_rent/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	RDB      *redis.Client
	Log      *zap.Logger
	Config   *config.Config
	Service  *services.Service
	Sessions *session.AppSessionStore
	Events   *events.RedisPublisher
}

// MustNew 连接 Postgres（含迁移）和 Redis；失败直接退出
func MustNew(cfg *config.Config, log *zap.Logger) *App {
	// --- DB: Postgres ---
	dbConn, err := db.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	a := New(cfg, log, db.NewRepo(dbConn), rdb)
	a.DB = dbConn
	return a
}

// New 在给定存储和 Redis 上组装 service、会话和 gin 引擎（路由由 routes 注册）
func New(cfg *config.Config, log *zap.Logger, store services.Store, rdb *redis.Client) *App {
	useJSONFieldNames()

	pub := events.NewRedisPublisher(rdb, cfg.Events.StatusChannel)
	svc := services.New(store, log.Named("services"),
		services.WithPublisher(pub),
		services.WithMaintenanceStaleness(cfg.Maintenance.StaleMonths))

	// --- Gin ---
	r := gin.New()
	r.Use(RequestLogger(log.Named("http")), gin.Recovery())
	useCORS(r, cfg)

	return &App{
		Router:   r,
		RDB:      rdb,
		Log:      log,
		Config:   cfg,
		Service:  svc,
		Sessions: session.NewAppSessionStore(rdb, cfg.SessionTTL()),
		Events:   pub,
	}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.Log.Sync()
}

var tagNameOnce sync.Once

// 校验错误里的字段名用 json tag，和请求体保持一致
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
