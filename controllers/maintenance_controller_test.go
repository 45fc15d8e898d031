package controllers_test

import (
	"net/http"
	"testing"

	"Gin_postgres_redis_equipment_rent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance_TechnicianOnly(t *testing.T) {
	ts := setupTestServer(t)
	dev := ts.createDevice(t, "Dialysis Unit")

	w := ts.do(t, http.MethodGet, "/api/maintenance", nurseEmail, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Error, "technician role required")

	w = ts.do(t, http.MethodPost, "/api/maintenance", nurseEmail, map[string]any{
		"deviceId": dev.ID, "maintenanceType": "Repair", "startDate": "2024-06-01",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.DeviceAvailable, ts.deviceStatus(t, dev.ID))
}

func TestMaintenance_Lifecycle(t *testing.T) {
	ts := setupTestServer(t)
	dev := ts.createDevice(t, "Dialysis Unit")

	w := ts.do(t, http.MethodPost, "/api/maintenance", techEmail, map[string]any{
		"deviceId": dev.ID, "maintenanceType": "Repair", "startDate": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rec := decode[models.Maintenance](t, w)
	assert.Equal(t, ts.tech.ID, rec.StaffID)
	assert.Equal(t, models.MaintenancePending, rec.Status)
	assert.Equal(t, models.DeviceUnderMaintenance, ts.deviceStatus(t, dev.ID))

	// 维护中不能借出
	w = ts.do(t, http.MethodPost, "/api/rentals", nurseEmail, ts.rentBody(dev.ID, "2024-06-10", "2024-06-20"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPut, "/api/maintenance/"+itoa(rec.ID), techEmail, map[string]any{
		"status": "Completed", "endDate": "2024-06-05", "cost": 120.5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[models.Maintenance](t, w)
	assert.Equal(t, models.MaintenanceCompleted, done.Status)
	require.NotNil(t, done.Cost)
	assert.InDelta(t, 120.5, *done.Cost, 0.001)
	assert.Equal(t, models.DeviceAvailable, ts.deviceStatus(t, dev.ID))

	// null 清空 cost，未出现的 endDate 保持不变
	w = ts.do(t, http.MethodPut, "/api/maintenance/"+itoa(rec.ID), techEmail, map[string]any{"cost": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cleared := decode[models.Maintenance](t, w)
	assert.Nil(t, cleared.Cost)
	require.NotNil(t, cleared.EndDate)
	assert.Equal(t, "2024-06-05", cleared.EndDate.String())

	w = ts.do(t, http.MethodPut, "/api/maintenance/"+itoa(rec.ID), techEmail, map[string]any{"status": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "status")

	w = ts.do(t, http.MethodGet, "/api/maintenance?deviceId="+itoa(dev.ID), techEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[listBody[models.Maintenance]](t, w).Items, 1)

	w = ts.do(t, http.MethodPut, "/api/maintenance/"+itoa(rec.ID), techEmail, map[string]any{"cost": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "cost")

	w = ts.do(t, http.MethodDelete, "/api/maintenance/"+itoa(rec.ID), techEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodGet, "/api/maintenance/"+itoa(rec.ID), techEmail, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaintenance_ExplicitStaffMustBeTechnician(t *testing.T) {
	ts := setupTestServer(t)
	dev := ts.createDevice(t, "Scale")

	w := ts.do(t, http.MethodPost, "/api/maintenance", techEmail, map[string]any{
		"deviceId": dev.ID, "staffId": ts.nurse.ID, "maintenanceType": "Calibration", "startDate": "2024-06-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "staffId")
	assert.Equal(t, models.DeviceAvailable, ts.deviceStatus(t, dev.ID))
}
