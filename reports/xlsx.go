package reports

import (
	"bytes"
	"fmt"

	"Gin_postgres_redis_equipment_rent/models"

	"github.com/xuri/excelize/v2"
)

// Sheet 单个工作表的表头与数据
type Sheet struct {
	Name   string
	Header []string
	Widths []float64
	Rows   [][]any
}

var (
	CurrentlyRentedHeader = []string{
		"Rental ID", "Device", "Type", "Staff", "Department",
		"Start Date", "End Date", "Overdue", "Purpose",
	}
	MaintenanceNeededHeader = []string{
		"Device ID", "Device", "Type", "Manufacturer", "Location", "Last Maintenance",
	}
	MaintenanceHistoryHeader = []string{
		"Maintenance ID", "Device", "Type", "Technician", "Maintenance Type",
		"Start Date", "End Date", "Cost", "Status", "Description",
	}
)

func CurrentlyRentedSheet(rows []models.RentedDeviceRow) Sheet {
	s := Sheet{
		Name:   "Currently Rented",
		Header: CurrentlyRentedHeader,
		Widths: []float64{10, 28, 18, 24, 24, 12, 12, 10, 40},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.RentalID, r.DeviceName, r.DeviceType, r.StaffName, r.DepartmentName,
			r.RentStartDate.String(), r.RentEndDate.String(), yesNo(r.Overdue), r.Purpose,
		})
	}
	return s
}

func MaintenanceNeededSheet(rows []models.MaintenanceDueRow) Sheet {
	s := Sheet{
		Name:   "Maintenance Needed",
		Header: MaintenanceNeededHeader,
		Widths: []float64{10, 28, 18, 22, 22, 16},
	}
	for _, r := range rows {
		last := "Never"
		if r.LastMaintenanceDate != nil {
			last = r.LastMaintenanceDate.String()
		}
		s.Rows = append(s.Rows, []any{
			r.DeviceID, r.DeviceName, r.DeviceType, r.Manufacturer, r.CurrentLocation, last,
		})
	}
	return s
}

func MaintenanceHistorySheet(rows []models.MaintenanceHistoryRow) Sheet {
	s := Sheet{
		Name:   "Maintenance History",
		Header: MaintenanceHistoryHeader,
		Widths: []float64{14, 28, 18, 24, 18, 12, 12, 12, 14, 40},
	}
	for _, r := range rows {
		var end, cost any
		if r.EndDate != nil {
			end = r.EndDate.String()
		}
		if r.Cost != nil {
			cost = *r.Cost
		}
		s.Rows = append(s.Rows, []any{
			r.MaintenanceID, r.DeviceName, r.DeviceType, r.TechnicianName, r.MaintenanceType,
			r.StartDate.String(), end, cost, string(r.Status), r.Description,
		})
	}
	return s
}

// Build 生成只含一个工作表的 xlsx，表头加粗并冻结首行
func Build(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(s.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range s.Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(s.Name, cell, h); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(s.Name, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		if i < len(s.Widths) {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(s.Name, col, col, s.Widths[i]); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for r, row := range s.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(s.Name, cell, v); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
