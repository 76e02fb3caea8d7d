package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is one stock pool, keyed by (product, batch, location).
// At most one row exists per triple; a pool whose quantity reaches exactly
// zero is deleted, never kept as a zero record.
type InventoryItem struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_pool" json:"product_id"`
	Product     *Product        `json:"product,omitempty"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_pool" json:"batch_id"`
	Batch       *Batch          `json:"batch,omitempty"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_pool" json:"location_id"`
	Location    *Location       `json:"location,omitempty"`
	Qty         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	Uom         string          `gorm:"type:varchar(20)" json:"uom"`
	Metadata    JSONB           `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	LastUpdated time.Time       `json:"last_updated"`
}
