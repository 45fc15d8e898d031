// app/bootstrap.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"go.uber.org/zap"
)

// BootstrapFirstTechnician 还没有任何技术员时，把配置的邮箱设为技术员（已存在则升级角色）
func BootstrapFirstTechnician(ctx context.Context, svc *services.Service, email string, log *zap.Logger) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	n, err := svc.CountTechnicians(ctx)
	if err != nil {
		return fmt.Errorf("count technicians: %w", err)
	}
	if n > 0 {
		return nil // 已经有技术员，跳过
	}

	st, err := svc.FindStaffByEmail(ctx, email)
	switch {
	case err == nil:
		role := models.RoleTechnician
		if _, err := svc.UpdateStaff(ctx, st.ID, services.StaffPatch{Role: &role}); err != nil {
			return fmt.Errorf("promote %s: %w", email, err)
		}
		log.Info("[BOOTSTRAP] promoted existing staff to technician", zap.String("email", email))
	case errors.Is(err, services.ErrNotFound):
		local, _, _ := strings.Cut(email, "@")
		st, err = svc.CreateStaff(ctx, services.StaffInput{
			FirstName: local,
			LastName:  "Technician",
			Role:      models.RoleTechnician,
			Email:     email,
		})
		if err != nil {
			return fmt.Errorf("create bootstrap technician %s: %w", email, err)
		}
		log.Info("[BOOTSTRAP] no technician found, created one", zap.String("email", email), zap.Uint("staff_id", st.ID))
	default:
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	return nil
}
