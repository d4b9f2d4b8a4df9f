package models

import "time"

type Appointment struct {
	ID          uint   `gorm:"primaryKey"`
	PatientID   string `gorm:"size:40;index;not null"`
	Patient     Patient
	StaffID     uint `gorm:"index;not null"`
	Staff       Staff
	ScheduledAt time.Time `gorm:"index;not null"`
	Status      string    `gorm:"size:30;not null;default:Scheduled"`
	Notes       string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
