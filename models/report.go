package models

// RentedDeviceRow 当前借出报表的一行
type RentedDeviceRow struct {
	RentalID       uint   `json:"rentalId"`
	DeviceID       uint   `json:"deviceId"`
	DeviceName     string `json:"deviceName"`
	DeviceType     string `json:"deviceType"`
	StaffName      string `json:"staffName"`
	DepartmentName string `json:"departmentName"`
	RentStartDate  Date   `json:"rentStartDate"`
	RentEndDate    Date   `json:"rentEndDate"`
	Purpose        string `json:"purpose,omitempty"`
	Overdue        bool   `gorm:"-" json:"overdue"` // 由 service 按当天计算
}

// MaintenanceDueRow 需要保养的设备
type MaintenanceDueRow struct {
	DeviceID            uint   `json:"deviceId"`
	DeviceName          string `json:"deviceName"`
	DeviceType          string `json:"deviceType"`
	Manufacturer        string `json:"manufacturer,omitempty"`
	CurrentLocation     string `json:"currentLocation,omitempty"`
	LastMaintenanceDate *Date  `json:"lastMaintenanceDate"`
}

type MaintenanceHistoryRow struct {
	MaintenanceID   uint              `json:"maintenanceId"`
	DeviceID        uint              `json:"deviceId"`
	DeviceName      string            `json:"deviceName"`
	DeviceType      string            `json:"deviceType"`
	TechnicianName  string            `json:"technicianName"`
	MaintenanceType string            `json:"maintenanceType"`
	StartDate       Date              `json:"startDate"`
	EndDate         *Date             `json:"endDate"`
	Cost            *float64          `json:"cost"`
	Status          MaintenanceStatus `json:"status"`
	Description     string            `json:"description,omitempty"`
}

type DashboardStats struct {
	TotalEquipment   int64 `json:"totalEquipment"`
	CurrentlyRented  int64 `json:"currentlyRented"`
	UnderMaintenance int64 `json:"underMaintenance"`
	Available        int64 `json:"available"`
}
