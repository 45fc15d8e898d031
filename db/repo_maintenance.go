package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_equipment_rent/models"
)

func (r *Repo) ListMaintenance(ctx context.Context, deviceID uint) ([]models.Maintenance, error) {
	q := r.DB.WithContext(ctx).Model(&models.Maintenance{}).Order("created_at DESC, id DESC")
	if deviceID != 0 {
		q = q.Where("device_id = ?", deviceID)
	}
	var ms []models.Maintenance
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *Repo) FindMaintenance(ctx context.Context, id uint) (*models.Maintenance, error) {
	var m models.Maintenance
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("maintenance %d", id))
	}
	return &m, nil
}

func (r *Repo) CreateMaintenance(ctx context.Context, m *models.Maintenance) error {
	return translate(r.DB.WithContext(ctx).Create(m).Error, fmt.Sprintf("maintenance for device %d", m.DeviceID))
}

// SaveMaintenance device_id 不可修改
func (r *Repo) SaveMaintenance(ctx context.Context, m *models.Maintenance) error {
	res := r.DB.WithContext(ctx).Model(m).
		Select("staff_id", "maintenance_type", "start_date", "end_date", "cost",
			"status", "description", "updated_at").
		Updates(m)
	return affected(res, fmt.Sprintf("maintenance %d", m.ID))
}

func (r *Repo) DeleteMaintenance(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Maintenance{}, id), fmt.Sprintf("maintenance %d", id))
}

func (r *Repo) CountOpenMaintenance(ctx context.Context, deviceID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Maintenance{}).
		Where("device_id = ? AND status IN ?", deviceID, models.OpenMaintenanceStatuses).
		Count(&n).Error
	return n, err
}
