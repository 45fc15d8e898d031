package services

import (
	"context"

	"Gin_postgres_redis_equipment_rent/models"
)

// Store is the data-access surface the service layer runs on. Lookups of a
// missing record return an error wrapping ErrNotFound; unique and
// overlapping-rental violations wrap ErrConflict.
//
// Implementations: db.Repo (gorm/Postgres) and memstore.Store (tests).
type Store interface {
	// WithTx runs fn inside one transaction. fn must use the Store it is
	// given, not the receiver.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	DepartmentStore
	StaffStore
	DeviceStore
	RentalStore
	MaintenanceStore
	ReportStore
}

type DepartmentStore interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	FindDepartment(ctx context.Context, id uint) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, id uint) error
}

type StaffStore interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
	FindStaff(ctx context.Context, id uint) (*models.Staff, error)
	FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	CreateStaff(ctx context.Context, s *models.Staff) error
	UpdateStaff(ctx context.Context, s *models.Staff) error
	DeleteStaff(ctx context.Context, id uint) error
	CountTechnicians(ctx context.Context) (int64, error)
	TouchStaffSeen(ctx context.Context, id uint) error
}

type DeviceStore interface {
	// ListDevices filters by status when status is non-empty.
	ListDevices(ctx context.Context, status models.DeviceStatus) ([]models.Device, error)
	FindDevice(ctx context.Context, id uint) (*models.Device, error)
	// LockDevice reads the device and holds a row lock until the
	// surrounding transaction ends.
	LockDevice(ctx context.Context, id uint) (*models.Device, error)
	CreateDevice(ctx context.Context, d *models.Device) error
	// UpdateDevice writes every column except status.
	UpdateDevice(ctx context.Context, d *models.Device) error
	DeleteDevice(ctx context.Context, id uint) error
	SetDeviceStatus(ctx context.Context, id uint, status models.DeviceStatus) error
	CountDevicesByStatus(ctx context.Context) (map[models.DeviceStatus]int64, error)
	CreateStatusLog(ctx context.Context, l *models.DeviceStatusLog) error
	ListStatusLog(ctx context.Context, deviceID uint) ([]models.DeviceStatusLog, error)
}

type RentalFilter struct {
	ActiveOnly bool
	DeviceID   uint
	StaffID    uint
}

type RentalStore interface {
	ListRentals(ctx context.Context, f RentalFilter) ([]models.Rental, error)
	FindRental(ctx context.Context, id uint) (*models.Rental, error)
	LockRental(ctx context.Context, id uint) (*models.Rental, error)
	ActiveRentalsForDevice(ctx context.Context, deviceID uint) ([]models.Rental, error)
	CreateRental(ctx context.Context, r *models.Rental) error
	SaveRental(ctx context.Context, r *models.Rental) error
}

type MaintenanceStore interface {
	// ListMaintenance filters by device when deviceID is non-zero.
	ListMaintenance(ctx context.Context, deviceID uint) ([]models.Maintenance, error)
	FindMaintenance(ctx context.Context, id uint) (*models.Maintenance, error)
	CreateMaintenance(ctx context.Context, m *models.Maintenance) error
	SaveMaintenance(ctx context.Context, m *models.Maintenance) error
	DeleteMaintenance(ctx context.Context, id uint) error
	CountOpenMaintenance(ctx context.Context, deviceID uint) (int64, error)
}

type ReportStore interface {
	CurrentlyRented(ctx context.Context) ([]models.RentedDeviceRow, error)
	// DevicesNeedingMaintenance lists Available devices whose latest
	// completed maintenance ended before cutoff, or that have none.
	DevicesNeedingMaintenance(ctx context.Context, cutoff models.Date) ([]models.MaintenanceDueRow, error)
	MaintenanceHistory(ctx context.Context, deviceID uint) ([]models.MaintenanceHistoryRow, error)
}
