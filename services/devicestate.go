package services

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_equipment_rent/models"
)

// Cause describes why a status transition happened.
type Cause struct {
	Reason  string
	ActorID *uint
}

// DeviceStateMachine is the only writer of devices.status. Its methods are
// plain setters: guarding (overlap, open maintenance) belongs to callers.
type DeviceStateMachine struct {
	store Store
	now   func() time.Time
}

func NewDeviceStateMachine(store Store, now func() time.Time) *DeviceStateMachine {
	if now == nil {
		now = time.Now
	}
	return &DeviceStateMachine{store: store, now: now}
}

func (m *DeviceStateMachine) MarkRented(ctx context.Context, deviceID uint, c Cause) (*models.DeviceStatusLog, error) {
	return m.set(ctx, deviceID, models.DeviceRented, c)
}

func (m *DeviceStateMachine) MarkAvailable(ctx context.Context, deviceID uint, c Cause) (*models.DeviceStatusLog, error) {
	return m.set(ctx, deviceID, models.DeviceAvailable, c)
}

func (m *DeviceStateMachine) MarkUnderMaintenance(ctx context.Context, deviceID uint, c Cause) (*models.DeviceStatusLog, error) {
	return m.set(ctx, deviceID, models.DeviceUnderMaintenance, c)
}

// set 覆盖写入；状态未变化时不写审计记录，返回 nil
func (m *DeviceStateMachine) set(ctx context.Context, deviceID uint, to models.DeviceStatus, c Cause) (*models.DeviceStatusLog, error) {
	dev, err := m.store.FindDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetDeviceStatus(ctx, deviceID, to); err != nil {
		return nil, fmt.Errorf("set device %d status %q: %w", deviceID, to, err)
	}
	if dev.Status == to {
		return nil, nil
	}
	entry := &models.DeviceStatusLog{
		DeviceID:   deviceID,
		FromStatus: dev.Status,
		ToStatus:   to,
		Reason:     c.Reason,
		ActorID:    c.ActorID,
		CreatedAt:  m.now().UTC(),
	}
	if err := m.store.CreateStatusLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("write status log for device %d: %w", deviceID, err)
	}
	return entry, nil
}

// releaseDevice settles a device after a rental return or a maintenance
// record closing or disappearing: open maintenance keeps it Under
// Maintenance, otherwise it is Available. Later bookings on the same device
// do not hold it.
func (s *Service) releaseDevice(ctx context.Context, tx Store, deviceID uint, c Cause) (*models.DeviceStatusLog, error) {
	sm := s.machine(tx)
	open, err := tx.CountOpenMaintenance(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("count open maintenance: %w", err)
	}
	if open > 0 {
		return sm.MarkUnderMaintenance(ctx, deviceID, c)
	}
	return sm.MarkAvailable(ctx, deviceID, c)
}
