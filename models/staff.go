package models

import (
	"strings"
	"time"
)

const StaffTable = "staff"

type Role string

const (
	RoleStaff      Role = "Staff"
	RoleTechnician Role = "Technician"
)

func (r Role) Valid() bool { return r == RoleStaff || r == RoleTechnician }

type Staff struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"size:255;not null" json:"firstName"`
	LastName     string     `gorm:"size:255;not null" json:"lastName"`
	Role         Role       `gorm:"size:50;not null" json:"role"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Contact      string     `gorm:"size:20" json:"contact,omitempty"`
	DepartmentID *uint      `gorm:"index" json:"departmentId,omitempty"`
	LastSeenAt   *time.Time `json:"lastSeenAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (Staff) TableName() string { return StaffTable }

func (s Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (s Staff) IsTechnician() bool { return s.Role == RoleTechnician }
