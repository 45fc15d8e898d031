package models

import "time"

const DepartmentTable = "departments"

type Department struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Location      string    `gorm:"size:255" json:"location,omitempty"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	ContactPerson string    `gorm:"size:255" json:"contactPerson,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Department) TableName() string { return DepartmentTable }
