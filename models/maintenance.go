package models

import "time"

const MaintenanceTable = "maintenance"

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "Pending"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
)

// OpenMaintenanceStatuses 未完成的维护状态
var OpenMaintenanceStatuses = []MaintenanceStatus{MaintenancePending, MaintenanceInProgress}

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

func (s MaintenanceStatus) Open() bool {
	return s == MaintenancePending || s == MaintenanceInProgress
}

type Maintenance struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	DeviceID        uint              `gorm:"index;not null" json:"deviceId"`
	StaffID         uint              `gorm:"index;not null" json:"staffId"`
	MaintenanceType string            `gorm:"size:100;not null" json:"maintenanceType"`
	StartDate       Date              `gorm:"not null" json:"startDate"`
	EndDate         *Date             `json:"endDate"`
	Cost            *float64          `gorm:"type:numeric(10,2)" json:"cost"`
	Status          MaintenanceStatus `gorm:"size:50;not null;default:'Pending'" json:"status"`
	Description     string            `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (Maintenance) TableName() string { return MaintenanceTable }
