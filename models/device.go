package models

import "time"

const DeviceTable = "devices"
const DeviceStatusLogTable = "device_status_log"

type DeviceStatus string

const (
	DeviceAvailable        DeviceStatus = "Available"
	DeviceRented           DeviceStatus = "Rented"
	DeviceUnderMaintenance DeviceStatus = "Under Maintenance"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceAvailable, DeviceRented, DeviceUnderMaintenance:
		return true
	}
	return false
}

// Device.Status 只能经由 services.DeviceStateMachine 修改
type Device struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"column:device_name;size:255;not null" json:"deviceName"`
	Type            string       `gorm:"column:device_type;size:100;not null" json:"deviceType"`
	Status          DeviceStatus `gorm:"size:50;not null;default:'Available'" json:"status"`
	CurrentLocation string       `gorm:"size:255" json:"currentLocation,omitempty"`
	PurchaseDate    *Date        `json:"purchaseDate,omitempty"`
	Manufacturer    string       `gorm:"size:255" json:"manufacturer,omitempty"`
	Model           string       `gorm:"size:255" json:"model,omitempty"`
	SerialNumber    string       `gorm:"size:255" json:"serialNumber,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (Device) TableName() string { return DeviceTable }

// DeviceStatusLog 记录每一次设备状态迁移（审计 + 事件推送）
type DeviceStatusLog struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	DeviceID   uint         `gorm:"index;not null" json:"deviceId"`
	FromStatus DeviceStatus `gorm:"size:50;not null" json:"fromStatus"`
	ToStatus   DeviceStatus `gorm:"size:50;not null" json:"toStatus"`
	Reason     string       `gorm:"size:255" json:"reason"`
	ActorID    *uint        `json:"actorId,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func (DeviceStatusLog) TableName() string { return DeviceStatusLogTable }
