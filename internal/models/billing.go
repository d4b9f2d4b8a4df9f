package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Known payment statuses. The column stays free text on purpose: legacy data
// carries ad-hoc values next to these.
const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
	PaymentStatusUnpaid  = "Unpaid"
)

type Billing struct {
	ID            uint   `gorm:"primaryKey"`
	PatientID     string `gorm:"size:40;index;not null"`
	Patient       Patient
	AppointmentID *uint `gorm:"index"`
	Appointment   *Appointment
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PaymentStatus string          `gorm:"size:30;not null;default:Pending"`
	BillDate      time.Time       `gorm:"index;not null"`
	DueDate       *time.Time
	Description   string `gorm:"size:255"`
	Notes         string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Billing) TableName() string { return "billing" }
