package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"size:100;not null"`
	Category   string          `gorm:"size:100"`
	Quantity   int             `gorm:"not null"` // never negative, checked on write
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ExpiryDate *time.Time      `gorm:"index"`
	Status     string          `gorm:"size:20;not null;default:Available"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Stock) TableName() string { return "stock" }
