package services

import (
	"context"

	"Gin_postgres_redis_equipment_rent/models"
)

// CurrentlyRented joins Active rentals with device, staff and department,
// earliest due first. Rows past their end date are flagged overdue.
func (s *Service) CurrentlyRented(ctx context.Context) ([]models.RentedDeviceRow, error) {
	rows, err := s.store.CurrentlyRented(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	for i := range rows {
		rows[i].Overdue = rows[i].RentEndDate.Before(today)
	}
	return rows, nil
}

// DevicesNeedingMaintenance 最近一次完成的维护早于 staleMonths 个月前（或从未维护）
func (s *Service) DevicesNeedingMaintenance(ctx context.Context) ([]models.MaintenanceDueRow, error) {
	cutoff := s.today().AddMonths(-s.staleMonths)
	return s.store.DevicesNeedingMaintenance(ctx, cutoff)
}

// MaintenanceHistory lists every maintenance record, newest first; a
// non-zero deviceID restricts it to that device.
func (s *Service) MaintenanceHistory(ctx context.Context, deviceID uint) ([]models.MaintenanceHistoryRow, error) {
	return s.store.MaintenanceHistory(ctx, deviceID)
}

func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	counts, err := s.store.CountDevicesByStatus(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats := models.DashboardStats{
		CurrentlyRented:  counts[models.DeviceRented],
		UnderMaintenance: counts[models.DeviceUnderMaintenance],
		Available:        counts[models.DeviceAvailable],
	}
	for _, n := range counts {
		stats.TotalEquipment += n
	}
	return stats, nil
}
