package model

import "github.com/shopspring/decimal"

// Payment modes
const (
	ModeCash     = "CASH"
	ModeBank     = "BANK"
	ModeUPI      = "UPI"
	ModeAdjusted = "ADJUSTED"
)

// LedgerEntry is a double-entry-style money movement between two accounts.
// Entries are append-only: a refund is a new entry with the accounts
// swapped, and the original is only annotated, never rewritten.
type LedgerEntry struct {
	BaseModel
	FromAccount string          `gorm:"type:varchar(100);not null;index" json:"from_account" validate:"required"`
	ToAccount   string          `gorm:"type:varchar(100);not null;index" json:"to_account" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount" validate:"decimal_gt0"`
	Mode        string          `gorm:"type:varchar(20);not null" json:"mode" validate:"required"`
	Cleared     bool            `gorm:"default:false" json:"cleared"`
	Reference   string          `gorm:"type:varchar(255)" json:"reference"`
	ReceiptURL  string          `gorm:"type:text" json:"receipt_url"`
	Note        string          `gorm:"type:text" json:"note"`
}
