package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a milk-producing farmer or society the dairy collects from
type Supplier struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Village     string `gorm:"type:varchar(255)" json:"village"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// MilkCollection records one intake of raw milk from a supplier
type MilkCollection struct {
	BaseModel
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier    *Supplier       `json:"supplier,omitempty" validate:"-"`
	CollectedAt time.Time       `gorm:"not null;index" json:"collected_at"`
	Shift       string          `gorm:"type:varchar(10)" json:"shift"` // MORNING / EVENING
	QtyLiters   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty_liters" validate:"decimal_gt0"`
	FatPct      decimal.Decimal `gorm:"type:decimal(5,2)" json:"fat_pct"`
	SnfPct      decimal.Decimal `gorm:"type:decimal(5,2)" json:"snf_pct"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2)" json:"rate"`   // Price per liter at intake
	Amount      decimal.Decimal `gorm:"type:decimal(14,2)" json:"amount"` // Snapshot qty * rate
}
