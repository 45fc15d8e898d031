// app/seenmw.go
package app

import (
	"fmt"
	"time"

	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func lastSeenKey(staffID uint) string { return fmt.Sprintf("staff:lastseen:%d", staffID) }

// TouchLastSeen 每个员工在 throttle 窗口内最多写一次 last_seen_at
func TouchLastSeen(svc *services.Service, rdb *redis.Client, throttle time.Duration, log *zap.Logger) gin.HandlerFunc {
	if throttle <= 0 {
		throttle = 5 * time.Minute
	}
	return func(c *gin.Context) {
		id, ok := StaffID(c)
		if !ok || id == 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		first, err := rdb.SetNX(ctx, lastSeenKey(id), "1", throttle).Result()
		if err != nil {
			log.Warn("last seen throttle", zap.Uint("staff_id", id), zap.Error(err))
		} else if first {
			// 忽略错误，不阻塞请求
			if err := svc.TouchStaffSeen(ctx, id); err != nil {
				log.Warn("touch last seen", zap.Uint("staff_id", id), zap.Error(err))
			}
		}
		c.Next()
	}
}
