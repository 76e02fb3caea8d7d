package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action types written by the domain operations
const (
	ActionInventoryAdjustment = "inventory_adjustment"
	ActionInventoryTransfer   = "inventory_transfer"
	ActionLedgerRefund        = "ledger_refund"
	ActionBatchQCUpdate       = "batch_qc_update"
)

// AuditLog is an append-only record of a domain operation. Rows are never
// updated or deleted.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ActionType string    `gorm:"type:varchar(50);not null;index" json:"action_type"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(100);index" json:"entity_id"`
	Meta       JSONB     `gorm:"type:jsonb;default:'{}'" json:"meta"`
	ActorID    string    `gorm:"type:varchar(100)" json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate is declared on AuditLog directly since it does not embed
// BaseModel (no soft delete, no update columns on an append-only table).
func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
