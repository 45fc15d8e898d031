package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_equipment_rent/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repo) ListDevices(ctx context.Context, status models.DeviceStatus) ([]models.Device, error) {
	q := r.DB.WithContext(ctx).Model(&models.Device{}).Order("device_name ASC, id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ds []models.Device
	if err := q.Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *Repo) FindDevice(ctx context.Context, id uint) (*models.Device, error) {
	var d models.Device
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("device %d", id))
	}
	return &d, nil
}

// LockDevice SELECT ... FOR UPDATE；同一设备的借用与维护操作由此串行化
func (r *Repo) LockDevice(ctx context.Context, id uint) (*models.Device, error) {
	var d models.Device
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&d, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("device %d", id))
	}
	return &d, nil
}

func (r *Repo) CreateDevice(ctx context.Context, d *models.Device) error {
	if d.Status == "" {
		d.Status = models.DeviceAvailable
	}
	return translate(r.DB.WithContext(ctx).Create(d).Error, "device "+d.Name)
}

// UpdateDevice 不写 status 列
func (r *Repo) UpdateDevice(ctx context.Context, d *models.Device) error {
	res := r.DB.WithContext(ctx).Model(d).
		Select("device_name", "device_type", "current_location", "purchase_date",
			"manufacturer", "model", "serial_number", "updated_at").
		Updates(d)
	return affected(res, fmt.Sprintf("device %d", d.ID))
}

func (r *Repo) DeleteDevice(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Device{}, id), fmt.Sprintf("device %d", id))
}

func (r *Repo) SetDeviceStatus(ctx context.Context, id uint, status models.DeviceStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		})
	return affected(res, fmt.Sprintf("device %d", id))
}

func (r *Repo) CountDevicesByStatus(ctx context.Context) (map[models.DeviceStatus]int64, error) {
	var rows []struct {
		Status models.DeviceStatus
		N      int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Device{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[models.DeviceStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
