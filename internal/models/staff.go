package models

import "time"

type Staff struct {
	ID         uint   `gorm:"primaryKey"`
	FirstName  string `gorm:"size:100;not null"`
	LastName   string `gorm:"size:100;not null"`
	RoleID     uint   `gorm:"index;not null"`
	Role       Role
	Department string `gorm:"size:100"`
	Contact    string `gorm:"size:30"`
	Email      string `gorm:"size:100"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Staff) TableName() string { return "staff" }
