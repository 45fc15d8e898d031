package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"Gin_postgres_redis_equipment_rent/db/memstore"
	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 固定“今天”，让逾期和维护到期判断可复现
var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	changes []models.DeviceStatusLog
}

func (r *recorder) PublishStatus(ctx context.Context, ch models.DeviceStatusLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, ch)
	return nil
}

type fixture struct {
	ctx    context.Context
	store  *memstore.Store
	svc    *services.Service
	events *recorder

	dept  *models.Department
	nurse *models.Staff
	tech  *models.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  memstore.New(),
		events: &recorder{},
	}
	f.svc = services.New(f.store, zap.NewNop(),
		services.WithPublisher(f.events),
		services.WithClock(func() time.Time { return fixedNow }))

	var err error
	f.dept, err = f.svc.CreateDepartment(f.ctx, services.DepartmentInput{Name: "Cardiology", Location: "Building A"})
	require.NoError(t, err)
	f.nurse, err = f.svc.CreateStaff(f.ctx, services.StaffInput{
		FirstName: "Ana", LastName: "Silva", Role: models.RoleStaff,
		Email: "ana.silva@hospital.test", DepartmentID: &f.dept.ID,
	})
	require.NoError(t, err)
	f.tech, err = f.svc.CreateStaff(f.ctx, services.StaffInput{
		FirstName: "Tomas", LastName: "Reyes", Role: models.RoleTechnician,
		Email: "tomas.reyes@hospital.test",
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) device(t *testing.T, name string) *models.Device {
	t.Helper()
	d, err := f.svc.CreateDevice(f.ctx, services.DeviceInput{DeviceName: name, DeviceType: "Monitor"})
	require.NoError(t, err)
	return d
}

func (f *fixture) rent(t *testing.T, deviceID uint, start, end string) (*models.Rental, error) {
	t.Helper()
	return f.svc.CreateRental(f.ctx, services.CreateRentalInput{
		DeviceID:      deviceID,
		StaffID:       f.nurse.ID,
		DepartmentID:  f.dept.ID,
		RentStartDate: models.MustDate(start),
		RentEndDate:   models.MustDate(end),
		Purpose:       "ward round",
	}, &f.nurse.ID)
}

func (f *fixture) maintain(t *testing.T, deviceID uint, status models.MaintenanceStatus) *models.Maintenance {
	t.Helper()
	m, err := f.svc.CreateMaintenance(f.ctx, services.CreateMaintenanceInput{
		DeviceID:        deviceID,
		StaffID:         f.tech.ID,
		MaintenanceType: "Preventive",
		StartDate:       models.MustDate("2024-06-01"),
		Status:          status,
	}, &f.tech.ID)
	require.NoError(t, err)
	return m
}

func (f *fixture) status(t *testing.T, deviceID uint) models.DeviceStatus {
	t.Helper()
	d, err := f.svc.GetDevice(f.ctx, deviceID)
	require.NoError(t, err)
	return d.Status
}

// assertMaintenanceInvariant 设备为 Under Maintenance 当且仅当存在未完成维护
func (f *fixture) assertMaintenanceInvariant(t *testing.T) {
	t.Helper()
	devices, err := f.svc.ListDevices(f.ctx, "")
	require.NoError(t, err)
	for _, d := range devices {
		open, err := f.store.CountOpenMaintenance(f.ctx, d.ID)
		require.NoError(t, err)
		require.Equalf(t, open > 0, d.Status == models.DeviceUnderMaintenance,
			"device %d status %q with %d open maintenance records", d.ID, d.Status, open)
	}
}

func statusPtr(s models.MaintenanceStatus) *models.MaintenanceStatus { return &s }
