package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respond 把 service 错误映射成 HTTP 状态码，body 为 {"error": ..., "fields": ...}
func (s *Srv) respond(c *gin.Context, err error) {
	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusBadRequest, app.H{"error": "validation failed", "fields": v.Fields})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		s.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("requestID")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}

// decodeStrict 按请求解析 JSON，拒绝未知字段（例如设备的 status）
func decodeStrict(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return errors.New("invalid request")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(dst)
}

// bindJSON 解析请求体；失败时写 400 并返回 false
func bindJSON(c *gin.Context, dst any) bool {
	err := decodeStrict(c.Request, dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, app.H{"error": "validation failed", "fields": fields})
		return false
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		badField(c, typeErr.Field, "has the wrong type")
		return false
	}
	c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	return false
}

func badField(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, app.H{
		"error":  "validation failed",
		"fields": map[string]string{field: msg},
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
