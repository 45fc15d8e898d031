package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"gorm.io/gorm/clause"
)

func (r *Repo) ListRentals(ctx context.Context, f services.RentalFilter) ([]models.Rental, error) {
	q := r.DB.WithContext(ctx).Model(&models.Rental{}).Order("created_at DESC, id DESC")
	if f.ActiveOnly {
		q = q.Where("rental_status = ?", models.RentalActive)
	}
	if f.DeviceID != 0 {
		q = q.Where("device_id = ?", f.DeviceID)
	}
	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	var rs []models.Rental
	if err := q.Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *Repo) FindRental(ctx context.Context, id uint) (*models.Rental, error) {
	var rt models.Rental
	if err := r.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("rental %d", id))
	}
	return &rt, nil
}

func (r *Repo) LockRental(ctx context.Context, id uint) (*models.Rental, error) {
	var rt models.Rental
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rt, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("rental %d", id))
	}
	return &rt, nil
}

func (r *Repo) ActiveRentalsForDevice(ctx context.Context, deviceID uint) ([]models.Rental, error) {
	var rs []models.Rental
	if err := r.DB.WithContext(ctx).
		Where("device_id = ? AND rental_status = ?", deviceID, models.RentalActive).
		Order("rent_start_date ASC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

// CreateRental 重叠由 rentals_no_overlapping_active 排他约束兜底（23P01 → ErrRentalOverlap）
func (r *Repo) CreateRental(ctx context.Context, rt *models.Rental) error {
	return translate(r.DB.WithContext(ctx).Create(rt).Error, fmt.Sprintf("rental for device %d", rt.DeviceID))
}

func (r *Repo) SaveRental(ctx context.Context, rt *models.Rental) error {
	res := r.DB.WithContext(ctx).Model(rt).
		Select("rental_status", "actual_return_date", "rent_end_date", "purpose").
		Updates(rt)
	return affected(res, fmt.Sprintf("rental %d", rt.ID))
}
