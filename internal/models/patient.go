package models

import "time"

type Patient struct {
	PatientID         string `gorm:"primaryKey;size:40"` // externally assigned, e.g. "PAT-1a2b3c4d"
	FirstName         string `gorm:"size:100;not null"`
	LastName          string `gorm:"size:100;not null"`
	DateOfBirth       *time.Time
	Gender            string  `gorm:"size:20"`
	Mobile            string  `gorm:"size:30"`
	Address           string  `gorm:"size:255"`
	InsuranceProvider *string `gorm:"size:100"`
	Status            string  `gorm:"size:20;not null;default:Active"`
	MedicalHistory    string  `gorm:"type:text"`
	Allergies         string  `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
