package services

import (
	"context"
	"time"

	"Gin_postgres_redis_equipment_rent/models"

	"go.uber.org/zap"
)

const DefaultMaintenanceStaleMonths = 6

// StatusPublisher receives device status transitions after they commit.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, change models.DeviceStatusLog) error
}

// Service 聚合设备状态机、借用重叠校验和维护生命周期
type Service struct {
	store       Store
	log         *zap.Logger
	events      StatusPublisher
	now         func() time.Time
	staleMonths int
}

type Option func(*Service)

func WithPublisher(p StatusPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaintenanceStaleness sets the window after which a device shows up in
// the maintenance-needed report. Non-positive values keep the default.
func WithMaintenanceStaleness(months int) Option {
	return func(s *Service) {
		if months > 0 {
			s.staleMonths = months
		}
	}
}

func New(store Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:       store,
		log:         log,
		now:         time.Now,
		staleMonths: DefaultMaintenanceStaleMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() models.Date { return models.DateOf(s.now()) }

func (s *Service) machine(tx Store) *DeviceStateMachine {
	return NewDeviceStateMachine(tx, s.now)
}

// publish 事务提交后推送；失败只记日志，不影响请求结果
func (s *Service) publish(ctx context.Context, changes []models.DeviceStatusLog) {
	if s.events == nil {
		return
	}
	for _, ch := range changes {
		if err := s.events.PublishStatus(ctx, ch); err != nil {
			s.log.Error("publish device status change",
				zap.Uint("device_id", ch.DeviceID),
				zap.String("to", string(ch.ToStatus)),
				zap.Error(err))
		}
	}
}

// transitions collects status changes made inside one transaction.
type transitions []models.DeviceStatusLog

func (t *transitions) add(l *models.DeviceStatusLog) {
	if l != nil {
		*t = append(*t, *l)
	}
}
