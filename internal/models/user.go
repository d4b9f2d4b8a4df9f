package models

import "time"

type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)

// User is the login account of a staff member. Exactly one row per staff
// (enforced by the staff/account transaction, not by the schema alone).
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	RoleID       uint   `gorm:"index;not null"`
	Role         Role
	Status       AccountStatus `gorm:"size:20;not null;default:Active"`
	StaffID      uint          `gorm:"uniqueIndex;not null"`
	Staff        Staff
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
