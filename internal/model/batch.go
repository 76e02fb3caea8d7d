package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QCStatus string

const (
	QCPending QCStatus = "pending"
	QCPassed  QCStatus = "passed"
	QCFailed  QCStatus = "failed"
)

// Batch is one production run of a product. Inventory operations reference
// batches but never mutate them.
type Batch struct {
	BaseModel
	BatchNo      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"batch_no" validate:"required"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product      *Product        `json:"product,omitempty" validate:"-"`
	YieldQty     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"yield_qty" validate:"decimal_gt0"`
	Uom          string          `gorm:"type:varchar(20)" json:"uom"`
	ProducedAt   time.Time       `gorm:"not null" json:"produced_at"`
	ExpiryDate   *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	QCStatus     QCStatus        `gorm:"type:varchar(20);not null;default:'pending'" json:"qc_status"`
	QCCheckedBy  string          `gorm:"type:varchar(255)" json:"qc_checked_by"`
	QCCheckedAt  *time.Time      `json:"qc_checked_at,omitempty"`
}
