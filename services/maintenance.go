package services

import (
	"context"
	"fmt"
	"strings"

	"Gin_postgres_redis_equipment_rent/models"

	"go.uber.org/zap"
)

type CreateMaintenanceInput struct {
	DeviceID        uint                     `json:"deviceId" binding:"required"`
	StaffID         uint                     `json:"staffId"`
	MaintenanceType string                   `json:"maintenanceType" binding:"required,max=100"`
	StartDate       models.Date              `json:"startDate"`
	EndDate         *models.Date             `json:"endDate"`
	Cost            *float64                 `json:"cost"`
	Status          models.MaintenanceStatus `json:"status"`
	Description     string                   `json:"description" binding:"max=2000"`
}

func (in CreateMaintenanceInput) Validate() error {
	v := &ValidationError{}
	if in.DeviceID == 0 {
		v.Add("deviceId", "required")
	}
	if in.StaffID == 0 {
		v.Add("staffId", "required")
	}
	if strings.TrimSpace(in.MaintenanceType) == "" {
		v.Add("maintenanceType", "required")
	}
	if in.StartDate.IsZero() {
		v.Add("startDate", "required")
	}
	validateMaintenanceFields(v, in.StartDate, in.EndDate, in.Cost, in.Status)
	return v.Err()
}

// MaintenancePatch 只更新非 nil 字段；设备不可更换。
// endDate、cost 可用 null 清空。
type MaintenancePatch struct {
	StaffID         *uint                     `json:"staffId"`
	MaintenanceType *string                   `json:"maintenanceType" binding:"omitempty,max=100"`
	StartDate       *models.Date              `json:"startDate"`
	EndDate         Nullable[models.Date]     `json:"endDate"`
	Cost            Nullable[float64]         `json:"cost"`
	Status          *models.MaintenanceStatus `json:"status"`
	Description     *string                   `json:"description" binding:"omitempty,max=2000"`
}

func (p MaintenancePatch) apply(m *models.Maintenance) {
	if p.StaffID != nil {
		m.StaffID = *p.StaffID
	}
	if p.MaintenanceType != nil {
		m.MaintenanceType = strings.TrimSpace(*p.MaintenanceType)
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.EndDate.Set {
		m.EndDate = nil
		if p.EndDate.Value != nil && !p.EndDate.Value.IsZero() {
			end := *p.EndDate.Value
			m.EndDate = &end
		}
	}
	if p.Cost.Set {
		m.Cost = nil
		if p.Cost.Value != nil {
			cost := *p.Cost.Value
			m.Cost = &cost
		}
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Description != nil {
		m.Description = strings.TrimSpace(*p.Description)
	}
}

const maintenanceStatusMsg = "must be one of Pending, In Progress, Completed"

// validateMaintenanceFields 新建时 status 可为空（默认 Pending）
func validateMaintenanceFields(v *ValidationError, start models.Date, end *models.Date, cost *float64, status models.MaintenanceStatus) {
	if status != "" && !status.Valid() {
		v.Add("status", maintenanceStatusMsg)
	}
	if end != nil && !end.IsZero() && !start.IsZero() && end.Before(start) {
		v.Add("endDate", "must not be before startDate")
	}
	if cost != nil && *cost < 0 {
		v.Add("cost", "must not be negative")
	}
}

func (s *Service) technician(ctx context.Context, tx Store, staffID uint) error {
	st, err := tx.FindStaff(ctx, staffID)
	if err != nil {
		return referenceError("staffId", err)
	}
	if !st.IsTechnician() {
		return invalid("staffId", "must reference a Technician")
	}
	return nil
}

// settleAfterMaintenance 维护记录仍未完成 → Under Maintenance；否则按释放规则
func (s *Service) settleAfterMaintenance(ctx context.Context, tx Store, rec *models.Maintenance, c Cause) (*models.DeviceStatusLog, error) {
	if rec.Status.Open() {
		return s.machine(tx).MarkUnderMaintenance(ctx, rec.DeviceID, c)
	}
	return s.releaseDevice(ctx, tx, rec.DeviceID, c)
}

// CreateMaintenance 新建维护记录并把设备置为 Under Maintenance。
// 同一设备允许多条并行维护，不做重叠校验。
func (s *Service) CreateMaintenance(ctx context.Context, in CreateMaintenanceInput, actorID *uint) (*models.Maintenance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.MaintenancePending
	}

	var (
		rec     *models.Maintenance
		changes transitions
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		dev, err := tx.LockDevice(ctx, in.DeviceID)
		if err != nil {
			return referenceError("deviceId", err)
		}
		if err := s.technician(ctx, tx, in.StaffID); err != nil {
			return err
		}
		m := &models.Maintenance{
			DeviceID:        dev.ID,
			StaffID:         in.StaffID,
			MaintenanceType: strings.TrimSpace(in.MaintenanceType),
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			Cost:            in.Cost,
			Status:          in.Status,
			Description:     strings.TrimSpace(in.Description),
		}
		if err := tx.CreateMaintenance(ctx, m); err != nil {
			return fmt.Errorf("create maintenance: %w", err)
		}
		entry, err := s.settleAfterMaintenance(ctx, tx, m, Cause{
			Reason:  fmt.Sprintf("maintenance %d opened", m.ID),
			ActorID: actorID,
		})
		if err != nil {
			return err
		}
		changes.add(entry)
		rec = m
		return nil
	})
	if err != nil {
		s.logFailure("create maintenance", err, zap.Uint("device_id", in.DeviceID))
		return nil, err
	}
	s.publish(ctx, changes)
	return rec, nil
}

// UpdateMaintenance 应用 patch；完成后仅当该设备没有其他未完成维护时才释放设备
func (s *Service) UpdateMaintenance(ctx context.Context, id uint, patch MaintenancePatch, actorID *uint) (*models.Maintenance, error) {
	var (
		rec     *models.Maintenance
		changes transitions
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		m, err := tx.FindMaintenance(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.LockDevice(ctx, m.DeviceID); err != nil {
			return err
		}
		wasOpen := m.Status.Open()
		patch.apply(m)

		v := &ValidationError{}
		if strings.TrimSpace(m.MaintenanceType) == "" {
			v.Add("maintenanceType", "required")
		}
		if !m.Status.Valid() {
			v.Add("status", maintenanceStatusMsg)
		}
		validateMaintenanceFields(v, m.StartDate, m.EndDate, m.Cost, m.Status)
		if err := v.Err(); err != nil {
			return err
		}
		if patch.StaffID != nil {
			if err := s.technician(ctx, tx, m.StaffID); err != nil {
				return err
			}
		}
		if err := tx.SaveMaintenance(ctx, m); err != nil {
			return fmt.Errorf("save maintenance: %w", err)
		}

		reason := fmt.Sprintf("maintenance %d updated", m.ID)
		if wasOpen && !m.Status.Open() {
			reason = fmt.Sprintf("maintenance %d completed", m.ID)
		}
		entry, err := s.settleAfterMaintenance(ctx, tx, m, Cause{Reason: reason, ActorID: actorID})
		if err != nil {
			return err
		}
		changes.add(entry)
		rec = m
		return nil
	})
	if err != nil {
		s.logFailure("update maintenance", err, zap.Uint("maintenance_id", id))
		return nil, err
	}
	s.publish(ctx, changes)
	return rec, nil
}

// DeleteMaintenance 先取 deviceId，再删除，然后按同样规则判断是否释放设备
func (s *Service) DeleteMaintenance(ctx context.Context, id uint, actorID *uint) error {
	var changes transitions
	err := s.store.WithTx(ctx, func(tx Store) error {
		m, err := tx.FindMaintenance(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.LockDevice(ctx, m.DeviceID); err != nil {
			return err
		}
		if err := tx.DeleteMaintenance(ctx, id); err != nil {
			return fmt.Errorf("delete maintenance: %w", err)
		}
		entry, err := s.releaseDevice(ctx, tx, m.DeviceID, Cause{
			Reason:  fmt.Sprintf("maintenance %d deleted", id),
			ActorID: actorID,
		})
		if err != nil {
			return err
		}
		changes.add(entry)
		return nil
	})
	if err != nil {
		s.logFailure("delete maintenance", err, zap.Uint("maintenance_id", id))
		return err
	}
	s.publish(ctx, changes)
	return nil
}

func (s *Service) ListMaintenance(ctx context.Context, deviceID uint) ([]models.Maintenance, error) {
	return s.store.ListMaintenance(ctx, deviceID)
}

func (s *Service) GetMaintenance(ctx context.Context, id uint) (*models.Maintenance, error) {
	return s.store.FindMaintenance(ctx, id)
}
