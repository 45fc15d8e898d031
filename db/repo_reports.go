package db

import (
	"context"

	"Gin_postgres_redis_equipment_rent/models"
)

// CurrentlyRented Active 借用 + 设备/借用人/科室，按到期日升序
func (r *Repo) CurrentlyRented(ctx context.Context) ([]models.RentedDeviceRow, error) {
	var rows []models.RentedDeviceRow
	err := r.DB.WithContext(ctx).
		Table(models.RentalTable+" r").
		Select(`
			r.id AS rental_id,
			d.id AS device_id, d.device_name, d.device_type,
			s.first_name || ' ' || s.last_name AS staff_name,
			dp.name AS department_name,
			r.rent_start_date, r.rent_end_date, r.purpose
		`).
		Joins("JOIN "+models.DeviceTable+" d ON d.id = r.device_id").
		Joins("JOIN "+models.StaffTable+" s ON s.id = r.staff_id").
		Joins("JOIN "+models.DepartmentTable+" dp ON dp.id = r.department_id").
		Where("r.rental_status = ?", models.RentalActive).
		Order("r.rent_end_date ASC, r.id ASC").
		Scan(&rows).Error
	return rows, err
}

// DevicesNeedingMaintenance 可用设备中，最近一次完成维护早于 cutoff 或从未维护过的
func (r *Repo) DevicesNeedingMaintenance(ctx context.Context, cutoff models.Date) ([]models.MaintenanceDueRow, error) {
	db := r.DB.WithContext(ctx)

	last := db.
		Table(models.MaintenanceTable).
		Select("device_id, MAX(end_date) AS last_date").
		Where("status = ? AND end_date IS NOT NULL", models.MaintenanceCompleted).
		Group("device_id")

	var rows []models.MaintenanceDueRow
	err := db.
		Table(models.DeviceTable+" d").
		Select(`
			d.id AS device_id, d.device_name, d.device_type, d.manufacturer, d.current_location,
			lm.last_date AS last_maintenance_date
		`).
		Joins("LEFT JOIN (?) AS lm ON lm.device_id = d.id", last).
		Where("d.status = ?", models.DeviceAvailable).
		Where("lm.last_date IS NULL OR lm.last_date < ?", cutoff).
		Order("d.device_name ASC, d.id ASC").
		Scan(&rows).Error
	return rows, err
}

// MaintenanceHistory deviceID 为 0 时返回全部
func (r *Repo) MaintenanceHistory(ctx context.Context, deviceID uint) ([]models.MaintenanceHistoryRow, error) {
	q := r.DB.WithContext(ctx).
		Table(models.MaintenanceTable+" m").
		Select(`
			m.id AS maintenance_id, m.device_id,
			d.device_name, d.device_type,
			s.first_name || ' ' || s.last_name AS technician_name,
			m.maintenance_type, m.start_date, m.end_date, m.cost, m.status, m.description
		`).
		Joins("JOIN "+models.DeviceTable+" d ON d.id = m.device_id").
		Joins("JOIN "+models.StaffTable+" s ON s.id = m.staff_id").
		Order("m.created_at DESC, m.id DESC")
	if deviceID != 0 {
		q = q.Where("m.device_id = ?", deviceID)
	}
	var rows []models.MaintenanceHistoryRow
	err := q.Scan(&rows).Error
	return rows, err
}
