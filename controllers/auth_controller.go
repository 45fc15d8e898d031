package controllers

import (
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	st := app.CurrentStaff(c)
	if st == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"staff":        st,
		"isTechnician": st.IsTechnician(),
	})
}

// POST /api/auth/logout：删 Redis 会话，Cookie 置空
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		if err := ac.AppSess.Delete(c.Request.Context(), ck.Value); err != nil {
			ac.Log.Warn("delete session", zap.Error(err))
		}
	}
	app.ClearSessionCookie(c.Writer, ac.Cfg.SecureCookies())
	c.JSON(http.StatusOK, app.H{"ok": true})
}
