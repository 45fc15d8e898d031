package reports

import (
	"bytes"
	"testing"

	"Gin_postgres_redis_equipment_rent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuild_CurrentlyRented(t *testing.T) {
	data, err := Build(CurrentlyRentedSheet([]models.RentedDeviceRow{{
		RentalID:       1,
		DeviceName:     "Infusion Pump",
		DeviceType:     "Infusion",
		StaffName:      "Ana Silva",
		DepartmentName: "Cardiology",
		RentStartDate:  models.MustDate("2024-06-10"),
		RentEndDate:    models.MustDate("2024-06-20"),
		Overdue:        true,
	}}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Currently Rented"}, f.GetSheetList())
	rows, err := f.GetRows("Currently Rented")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CurrentlyRentedHeader, rows[0])
	assert.Equal(t, "Infusion Pump", rows[1][1])
	assert.Equal(t, "2024-06-20", rows[1][6])
	assert.Equal(t, "Yes", rows[1][7])
}

func TestBuild_MaintenanceNeededNeverServiced(t *testing.T) {
	last := models.MustDate("2023-11-01")
	data, err := Build(MaintenanceNeededSheet([]models.MaintenanceDueRow{
		{DeviceID: 1, DeviceName: "Scale", LastMaintenanceDate: &last},
		{DeviceID: 2, DeviceName: "Thermometer"},
	}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Maintenance Needed", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-01", v)
	v, err = f.GetCellValue("Maintenance Needed", "F3")
	require.NoError(t, err)
	assert.Equal(t, "Never", v)
}

func TestBuild_MaintenanceHistoryEmptyOptionalCells(t *testing.T) {
	data, err := Build(MaintenanceHistorySheet([]models.MaintenanceHistoryRow{{
		MaintenanceID: 3,
		DeviceName:    "Dialysis Unit",
		StartDate:     models.MustDate("2024-06-01"),
		Status:        models.MaintenanceInProgress,
	}}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	end, err := f.GetCellValue("Maintenance History", "G2")
	require.NoError(t, err)
	assert.Empty(t, end)
	status, err := f.GetCellValue("Maintenance History", "I2")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", status)
}
