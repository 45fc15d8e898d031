package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_equipment_rent/config"
	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"
	"Gin_postgres_redis_equipment_rent/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AppSessionCookie = "app_session"

// AuthRequired 先认会话 Cookie；没有或失效时用认证代理写入的邮箱头换一个新会话
func AuthRequired(svc *services.Service, appSess *session.AppSessionStore, cfg *config.Config, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if ck, err := c.Request.Cookie(AppSessionCookie); err == nil && ck.Value != "" {
			as, err := appSess.Get(ctx, ck.Value)
			if err == nil {
				// 角色可能已变更，每次从数据库读
				st, err := svc.GetStaff(ctx, as.StaffID)
				if err == nil {
					setStaff(c, st)
					c.Next()
					return
				}
				if !errors.Is(err, services.ErrNotFound) {
					log.Error("load session staff", zap.Uint("staff_id", as.StaffID), zap.Error(err))
					c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "internal error"})
					return
				}
				_ = appSess.Delete(ctx, ck.Value)
			} else if !errors.Is(err, session.ErrNoSession) {
				log.Error("read session", zap.Error(err))
			}
		}

		email := strings.TrimSpace(c.GetHeader(cfg.Auth.Header))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		st, err := svc.FindStaffByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unknown staff member"})
				return
			}
			log.Error("resolve staff by email", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "internal error"})
			return
		}
		id, err := appSess.Create(ctx, st.ID, st.Email)
		if err != nil {
			log.Error("create session", zap.Uint("staff_id", st.ID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "internal error"})
			return
		}
		SetSessionCookie(c.Writer, id, appSess.TTL(), cfg.SecureCookies())
		setStaff(c, st)
		c.Next()
	}
}

// TechnicianOnly 必须放在 AuthRequired 之后
func TechnicianOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := CurrentStaff(c)
		if st == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !st.IsTechnician() {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": services.ErrTechnicianRequired.Error()})
			return
		}
		c.Next()
	}
}

func setStaff(c *gin.Context, st *models.Staff) {
	c.Set("staffID", st.ID)
	c.Set("staff", st)
}

func CurrentStaff(c *gin.Context) *models.Staff {
	v, ok := c.Get("staff")
	if !ok {
		return nil
	}
	st, _ := v.(*models.Staff)
	return st
}

func StaffID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("staffID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// 统一设置业务会话 Cookie
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
