package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_equipment_rent/models"

	"go.uber.org/zap"
)

// Overlaps reports whether the closed date intervals [s1,e1] and [s2,e2]
// share at least one day.
func Overlaps(s1, e1, s2, e2 models.Date) bool {
	return !s1.After(e2) && !s2.After(e1)
}

type CreateRentalInput struct {
	DeviceID      uint        `json:"deviceId" binding:"required"`
	StaffID       uint        `json:"staffId" binding:"required"`
	DepartmentID  uint        `json:"departmentId" binding:"required"`
	RentStartDate models.Date `json:"rentStartDate"`
	RentEndDate   models.Date `json:"rentEndDate"`
	Purpose       string      `json:"purpose" binding:"max=2000"`
}

func (in CreateRentalInput) Validate() error {
	v := &ValidationError{}
	if in.DeviceID == 0 {
		v.Add("deviceId", "required")
	}
	if in.StaffID == 0 {
		v.Add("staffId", "required")
	}
	if in.DepartmentID == 0 {
		v.Add("departmentId", "required")
	}
	if in.RentStartDate.IsZero() {
		v.Add("rentStartDate", "required")
	}
	if in.RentEndDate.IsZero() {
		v.Add("rentEndDate", "required")
	}
	if !in.RentStartDate.IsZero() && !in.RentEndDate.IsZero() && in.RentStartDate.After(in.RentEndDate) {
		v.Add("rentEndDate", "must not be before rentStartDate")
	}
	return v.Err()
}

// HasOverlap reports whether [start,end] overlaps any Active rental of the device.
func (s *Service) HasOverlap(ctx context.Context, deviceID uint, start, end models.Date) (bool, error) {
	return hasOverlap(ctx, s.store, deviceID, start, end)
}

func hasOverlap(ctx context.Context, st Store, deviceID uint, start, end models.Date) (bool, error) {
	active, err := st.ActiveRentalsForDevice(ctx, deviceID)
	if err != nil {
		return false, fmt.Errorf("list active rentals for device %d: %w", deviceID, err)
	}
	for _, r := range active {
		if Overlaps(r.RentStartDate, r.RentEndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// CreateRental 原子操作 = 锁住设备 → 校验引用/维护/重叠 → 新建 Active 借用 → 设备置为 Rented
func (s *Service) CreateRental(ctx context.Context, in CreateRentalInput, actorID *uint) (*models.Rental, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Purpose = strings.TrimSpace(in.Purpose)

	var (
		rental  *models.Rental
		changes transitions
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		dev, err := tx.LockDevice(ctx, in.DeviceID)
		if err != nil {
			return referenceError("deviceId", err)
		}
		if _, err := tx.FindStaff(ctx, in.StaffID); err != nil {
			return referenceError("staffId", err)
		}
		if _, err := tx.FindDepartment(ctx, in.DepartmentID); err != nil {
			return referenceError("departmentId", err)
		}

		open, err := tx.CountOpenMaintenance(ctx, dev.ID)
		if err != nil {
			return fmt.Errorf("count open maintenance: %w", err)
		}
		if open > 0 {
			return ErrDeviceUnderMaintenance
		}
		overlap, err := hasOverlap(ctx, tx, dev.ID, in.RentStartDate, in.RentEndDate)
		if err != nil {
			return err
		}
		if overlap {
			return ErrRentalOverlap
		}

		r := &models.Rental{
			DeviceID:      dev.ID,
			StaffID:       in.StaffID,
			DepartmentID:  in.DepartmentID,
			RentStartDate: in.RentStartDate,
			RentEndDate:   in.RentEndDate,
			RentalStatus:  models.RentalActive,
			Purpose:       in.Purpose,
		}
		if err := tx.CreateRental(ctx, r); err != nil {
			return fmt.Errorf("create rental: %w", err)
		}
		entry, err := s.machine(tx).MarkRented(ctx, dev.ID, Cause{
			Reason:  fmt.Sprintf("rental %d created", r.ID),
			ActorID: actorID,
		})
		if err != nil {
			return err
		}
		changes.add(entry)
		rental = r
		return nil
	})
	if err != nil {
		s.logFailure("create rental", err, zap.Uint("device_id", in.DeviceID))
		return nil, err
	}
	s.log.Info("rental created",
		zap.Uint("rental_id", rental.ID),
		zap.Uint("device_id", rental.DeviceID),
		zap.String("start", rental.RentStartDate.String()),
		zap.String("end", rental.RentEndDate.String()))
	s.publish(ctx, changes)
	return rental, nil
}

// ReturnRental 归还：已归还的借用直接返回（幂等，不再触发状态变化）
func (s *Service) ReturnRental(ctx context.Context, rentalID uint, actorID *uint) (*models.Rental, error) {
	var (
		rental  *models.Rental
		changes transitions
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		r, err := tx.LockRental(ctx, rentalID)
		if err != nil {
			return err
		}
		if !r.IsActive() {
			rental = r
			return nil
		}
		if _, err := tx.LockDevice(ctx, r.DeviceID); err != nil {
			return err
		}

		today := s.today()
		r.RentalStatus = models.RentalReturned
		r.ActualReturnDate = &today
		if err := tx.SaveRental(ctx, r); err != nil {
			return fmt.Errorf("save rental: %w", err)
		}
		entry, err := s.releaseDevice(ctx, tx, r.DeviceID, Cause{
			Reason:  fmt.Sprintf("rental %d returned", r.ID),
			ActorID: actorID,
		})
		if err != nil {
			return err
		}
		changes.add(entry)
		rental = r
		return nil
	})
	if err != nil {
		s.logFailure("return rental", err, zap.Uint("rental_id", rentalID))
		return nil, err
	}
	s.publish(ctx, changes)
	return rental, nil
}

func (s *Service) ListRentals(ctx context.Context, f RentalFilter) ([]models.Rental, error) {
	return s.store.ListRentals(ctx, f)
}

func (s *Service) GetRental(ctx context.Context, id uint) (*models.Rental, error) {
	return s.store.FindRental(ctx, id)
}

// referenceError turns a missing referenced record into a field error.
func referenceError(field string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return invalid(field, "does not reference an existing record")
	}
	return err
}

// logFailure 只记录非调用方错误（存储故障等）
func (s *Service) logFailure(op string, err error, fields ...zap.Field) {
	if IsValidation(err) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrForbidden) {
		return
	}
	s.log.Error(op+" failed", append(fields, zap.Error(err))...)
}
