package models

import "time"

const RentalTable = "rentals"

type RentalStatus string

const (
	RentalActive   RentalStatus = "Active"
	RentalReturned RentalStatus = "Returned"
)

type Rental struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	DeviceID         uint         `gorm:"index;not null" json:"deviceId"`
	StaffID          uint         `gorm:"index;not null" json:"staffId"`
	DepartmentID     uint         `gorm:"index;not null" json:"departmentId"`
	RentStartDate    Date         `gorm:"not null" json:"rentStartDate"`
	RentEndDate      Date         `gorm:"not null" json:"rentEndDate"`
	ActualReturnDate *Date        `json:"actualReturnDate"`
	RentalStatus     RentalStatus `gorm:"size:50;not null;default:'Active'" json:"rentalStatus"`
	Purpose          string       `gorm:"type:text" json:"purpose,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

func (Rental) TableName() string { return RentalTable }

func (r Rental) IsActive() bool { return r.RentalStatus == RentalActive }
