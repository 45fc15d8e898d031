package db

import (
	"context"

	"Gin_postgres_redis_equipment_rent/models"
)

func (r *Repo) CreateStatusLog(ctx context.Context, l *models.DeviceStatusLog) error {
	return translate(r.DB.WithContext(ctx).Create(l).Error, "device status log")
}

// ListStatusLog 最新在前
func (r *Repo) ListStatusLog(ctx context.Context, deviceID uint) ([]models.DeviceStatusLog, error) {
	var ls []models.DeviceStatusLog
	if err := r.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC, id DESC").
		Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}
