package services_test

import (
	"errors"
	"testing"

	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMaintenance_MarksDeviceUnderMaintenance(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Anesthesia Machine")

	m := f.maintain(t, dev.ID, "")
	assert.Equal(t, models.MaintenancePending, m.Status)
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
	f.assertMaintenanceInvariant(t)
}

func TestCreateMaintenance_RequiresTechnician(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Anesthesia Machine")

	_, err := f.svc.CreateMaintenance(f.ctx, services.CreateMaintenanceInput{
		DeviceID:        dev.ID,
		StaffID:         f.nurse.ID,
		MaintenanceType: "Repair",
		StartDate:       models.MustDate("2024-06-01"),
	}, nil)
	var v *services.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "staffId")
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))
}

func TestCreateMaintenance_Validation(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Anesthesia Machine")
	end := models.MustDate("2024-05-01")
	cost := -10.0

	_, err := f.svc.CreateMaintenance(f.ctx, services.CreateMaintenanceInput{
		DeviceID:        dev.ID,
		StaffID:         f.tech.ID,
		MaintenanceType: "Repair",
		StartDate:       models.MustDate("2024-06-01"),
		EndDate:         &end,
		Cost:            &cost,
		Status:          "Broken",
	}, nil)
	var v *services.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "endDate")
	assert.Contains(t, v.Fields, "cost")
	assert.Contains(t, v.Fields, "status")
}

func TestCreateMaintenance_CompletedRecordLeavesDeviceAvailable(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Patient Monitor")

	f.maintain(t, dev.ID, models.MaintenanceCompleted)
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))
	assert.Empty(t, f.events.changes)
}

// 设备 #4 有一条 Completed、一条 In Progress 维护记录
func TestMaintenanceCloseScenario(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *models.Device, *models.Maintenance, *models.Maintenance) {
		f := newFixture(t)
		dev := f.device(t, "Dialysis Unit")
		first := f.maintain(t, dev.ID, models.MaintenanceInProgress)
		second := f.maintain(t, dev.ID, models.MaintenanceInProgress)
		_, err := f.svc.UpdateMaintenance(f.ctx, first.ID, services.MaintenancePatch{
			Status: statusPtr(models.MaintenanceCompleted),
		}, nil)
		require.NoError(t, err)
		require.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
		return f, dev, first, second
	}

	t.Run("completing the open record frees the device", func(t *testing.T) {
		f, dev, _, second := setup(t)
		end := models.MustDate("2024-06-14")
		got, err := f.svc.UpdateMaintenance(f.ctx, second.ID, services.MaintenancePatch{
			Status:  statusPtr(models.MaintenanceCompleted),
			EndDate: services.Some(end),
		}, &f.tech.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MaintenanceCompleted, got.Status)
		assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))
		f.assertMaintenanceInvariant(t)

		logs, err := f.svc.DeviceStatusLog(f.ctx, dev.ID)
		require.NoError(t, err)
		require.NotEmpty(t, logs)
		assert.Equal(t, models.DeviceAvailable, logs[0].ToStatus)
		assert.Contains(t, logs[0].Reason, "completed")
	})

	t.Run("touching only the completed record keeps the device in maintenance", func(t *testing.T) {
		f, dev, first, _ := setup(t)
		desc := "replaced filter"
		_, err := f.svc.UpdateMaintenance(f.ctx, first.ID, services.MaintenancePatch{
			Status:      statusPtr(models.MaintenanceCompleted),
			Description: &desc,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
		f.assertMaintenanceInvariant(t)
	})
}

func TestUpdateMaintenance_ReopeningMarksDeviceAgain(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Centrifuge")
	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)

	_, err := f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: statusPtr(models.MaintenanceCompleted)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))

	_, err = f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: statusPtr(models.MaintenancePending)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
	f.assertMaintenanceInvariant(t)
}

func TestUpdateMaintenance_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateMaintenance(f.ctx, 77, services.MaintenancePatch{}, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateMaintenance_InvalidPatchLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Centrifuge")
	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)

	bad := models.MaintenanceStatus("Done")
	_, err := f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: &bad}, nil)
	assert.True(t, services.IsValidation(err))

	got, err := f.svc.GetMaintenance(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceInProgress, got.Status)
}

func TestDeleteMaintenance(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Autoclave")
	a := f.maintain(t, dev.ID, models.MaintenancePending)
	b := f.maintain(t, dev.ID, models.MaintenanceInProgress)

	require.NoError(t, f.svc.DeleteMaintenance(f.ctx, a.ID, nil))
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))

	require.NoError(t, f.svc.DeleteMaintenance(f.ctx, b.ID, nil))
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))
	f.assertMaintenanceInvariant(t)

	assert.ErrorIs(t, f.svc.DeleteMaintenance(f.ctx, b.ID, nil), services.ErrNotFound)
}

func TestMaintenanceDuringRental_ReturnKeepsUnderMaintenance(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Portable Ventilator")
	r, err := f.rent(t, dev.ID, "2024-06-10", "2024-06-20")
	require.NoError(t, err)

	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))

	// 维护期间归还：仍有未完成维护，设备保持 Under Maintenance
	_, err = f.svc.ReturnRental(f.ctx, r.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
	f.assertMaintenanceInvariant(t)

	_, err = f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: statusPtr(models.MaintenanceCompleted)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))
}

// 借出中的设备完成维护后为 Available，即使借用仍为 Active
func TestMaintenanceDuringRental_CompletionFreesDevice(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Defibrillator")
	r, err := f.rent(t, dev.ID, "2024-06-10", "2024-06-20")
	require.NoError(t, err)

	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)
	_, err = f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: statusPtr(models.MaintenanceCompleted)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAvailable, f.status(t, dev.ID))

	got, err := f.svc.GetRental(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentalActive, got.RentalStatus)
	f.assertMaintenanceInvariant(t)
}

func TestUpdateMaintenance_ClearsEndDateAndCost(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Autoclave")
	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)

	got, err := f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{
		EndDate: services.Some(models.MustDate("2024-06-30")),
		Cost:    services.Some(80.0),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	require.NotNil(t, got.Cost)

	// 未出现的字段保持原值
	got, err = f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{
		Cost: services.Null[float64](),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, got.Cost)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "2024-06-30", got.EndDate.String())

	got, err = f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{
		EndDate: services.Null[models.Date](),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)
}

func TestUpdateMaintenance_BlankStatusRejected(t *testing.T) {
	f := newFixture(t)
	dev := f.device(t, "Infusion Pump")
	m := f.maintain(t, dev.ID, models.MaintenanceInProgress)

	_, err := f.svc.UpdateMaintenance(f.ctx, m.ID, services.MaintenancePatch{Status: statusPtr("")}, nil)
	require.True(t, services.IsValidation(err))
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	got, err := f.svc.GetMaintenance(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceInProgress, got.Status)
	assert.Equal(t, models.DeviceUnderMaintenance, f.status(t, dev.ID))
}

func TestListMaintenance_FiltersByDevice(t *testing.T) {
	f := newFixture(t)
	a := f.device(t, "Scale")
	b := f.device(t, "Thermometer")
	f.maintain(t, a.ID, models.MaintenanceCompleted)
	f.maintain(t, b.ID, models.MaintenanceCompleted)
	f.maintain(t, b.ID, models.MaintenancePending)

	all, err := f.svc.ListMaintenance(f.ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyB, err := f.svc.ListMaintenance(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, onlyB, 2)
}
