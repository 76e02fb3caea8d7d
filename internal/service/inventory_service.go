package service

import (
	"errors"
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdjustStockRequest carries a signed delta against one stock pool.
// AdjustmentQty is a pointer so "zero" and "absent" stay distinguishable.
type AdjustStockRequest struct {
	InventoryID   uuid.UUID        `json:"inventory_id"`
	AdjustmentQty *decimal.Decimal `json:"adjustment_qty"`
	Reason        string           `json:"reason"`
	AdjustedBy    string           `json:"adjusted_by"`
}

type TransferStockRequest struct {
	FromInventoryID uuid.UUID       `json:"from_inventory_id"`
	ToLocationID    uuid.UUID       `json:"to_location_id"`
	TransferQty     decimal.Decimal `json:"transfer_qty"`
	Reason          string          `json:"reason"`
	TransferredBy   string          `json:"transferred_by"`
}

type TransferStockResult struct {
	Success        bool            `json:"success"`
	SourceQty      decimal.Decimal `json:"source_qty"`
	SourceDeleted  bool            `json:"source_deleted"`
	DestinationID  uuid.UUID       `json:"destination_id"`
	DestinationQty decimal.Decimal `json:"destination_qty"`
}

type InventoryService interface {
	AdjustStock(req *AdjustStockRequest) (*model.InventoryItem, error)
	TransferStock(req *TransferStockRequest) (*TransferStockResult, error)
	GetInventory(locationID *uuid.UUID) ([]model.InventoryItem, error)
	GetItem(id uuid.UUID) (*model.InventoryItem, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	tx            repository.TxRunner
	wsHub         *ws.Hub
	logger        *zap.Logger
}

func NewInventoryService(invRepo repository.InventoryRepository, auditRepo repository.AuditRepository, tx repository.TxRunner, hub *ws.Hub, logger *zap.Logger) InventoryService {
	return &inventoryService{
		inventoryRepo: invRepo,
		auditRepo:     auditRepo,
		tx:            tx,
		wsHub:         hub,
		logger:        logger,
	}
}

// AdjustStock applies a signed delta to one pool. The quantity update and
// the audit row commit in the same transaction, with the item row locked,
// so a crash can never leave an adjustment without its audit trail.
func (s *inventoryService) AdjustStock(req *AdjustStockRequest) (*model.InventoryItem, error) {
	// 1. Validate input
	if req.InventoryID == uuid.Nil {
		return nil, apperr.NewValidation("inventory_id", "inventory item id is required")
	}
	if req.AdjustmentQty == nil {
		return nil, apperr.NewValidation("adjustment_qty", "adjustment quantity is required")
	}
	delta := *req.AdjustmentQty

	var item *model.InventoryItem

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		// 2. Find and lock the item
		found, err := s.inventoryRepo.FindByIDForUpdate(tx, req.InventoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("inventory item", req.InventoryID.String())
			}
			return apperr.NewStore("inventory adjustment lookup", err)
		}

		// 3. Compute new quantity, never letting stock go negative
		newQty := found.Qty.Add(delta)
		if newQty.IsNegative() {
			return apperr.NewInsufficientStock(delta.Abs().String(), found.Qty.String())
		}

		// 4. Merge the adjustment record into metadata, preserving prior keys
		if found.Metadata == nil {
			found.Metadata = model.JSONB{}
		}
		found.Metadata["last_adjustment"] = map[string]interface{}{
			"qty":         delta.String(),
			"reason":      req.Reason,
			"adjusted_by": req.AdjustedBy,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}

		found.Qty = newQty
		found.LastUpdated = time.Now().UTC()
		found.UpdatedBy = req.AdjustedBy

		if err := s.inventoryRepo.Save(tx, found); err != nil {
			return apperr.NewStore("inventory adjustment update", err)
		}

		// 5. Append the audit row inside the same transaction
		audit := &model.AuditLog{
			ActionType: model.ActionInventoryAdjustment,
			EntityType: "inventory_item",
			EntityID:   found.ID.String(),
			ActorID:    req.AdjustedBy,
			Meta: model.JSONB{
				"qty":     delta.String(),
				"new_qty": newQty.String(),
				"reason":  req.Reason,
			},
		}
		if err := s.auditRepo.Create(tx, audit); err != nil {
			return apperr.NewStore("inventory adjustment audit", err)
		}

		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("inventory_id", item.ID.String()),
		zap.String("delta", delta.String()),
		zap.String("new_qty", item.Qty.String()),
	)

	// 6. Broadcast after commit
	go s.wsHub.Publish(map[string]interface{}{
		"type":         "stock_update",
		"action":       "inventory_adjusted",
		"inventory_id": item.ID.String(),
		"new_qty":      item.Qty.String(),
		"adjusted_by":  req.AdjustedBy,
	})

	return item, nil
}

// TransferStock moves quantity from a source pool to the same (product,
// batch) pool at another location. Destination write, source write, and
// audit row are one transaction; the source row is locked first so
// concurrent transfers cannot double-count stock.
func (s *inventoryService) TransferStock(req *TransferStockRequest) (*TransferStockResult, error) {
	// 1. Validate input
	if req.FromInventoryID == uuid.Nil {
		return nil, apperr.NewValidation("from_inventory_id", "source inventory item id is required")
	}
	if req.ToLocationID == uuid.Nil {
		return nil, apperr.NewValidation("to_location_id", "destination location is required")
	}
	if !req.TransferQty.GreaterThan(decimal.Zero) {
		return nil, apperr.NewValidation("transfer_qty", "transfer quantity must be greater than zero")
	}

	result := &TransferStockResult{}

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		// 2. Find and lock the source
		source, err := s.inventoryRepo.FindByIDForUpdate(tx, req.FromInventoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("inventory item", req.FromInventoryID.String())
			}
			return apperr.NewStore("inventory transfer lookup", err)
		}

		if source.LocationID == req.ToLocationID {
			return apperr.NewInvalidState("source and destination location are the same")
		}

		// 3. Check available stock
		if req.TransferQty.GreaterThan(source.Qty) {
			return apperr.NewInsufficientStock(req.TransferQty.String(), source.Qty.String())
		}

		now := time.Now().UTC()

		// 4. Resolve the destination pool: merge into an existing row for
		// the same (product, batch) at the target location, else create one
		destination, err := s.inventoryRepo.FindPool(tx, source.ProductID, source.BatchID, req.ToLocationID)
		switch {
		case err == nil:
			destination.Qty = destination.Qty.Add(req.TransferQty)
			destination.LastUpdated = now
			destination.UpdatedBy = req.TransferredBy
			if err := s.inventoryRepo.Save(tx, destination); err != nil {
				return apperr.NewStore("inventory transfer destination update", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			destination = &model.InventoryItem{
				ProductID:   source.ProductID,
				BatchID:     source.BatchID,
				LocationID:  req.ToLocationID,
				Qty:         req.TransferQty,
				Uom:         source.Uom,
				LastUpdated: now,
				Metadata: model.JSONB{
					"transferred_from": source.LocationID.String(),
					"transfer_date":    now.Format(time.RFC3339),
				},
			}
			destination.CreatedBy = req.TransferredBy
			destination.UpdatedBy = req.TransferredBy
			if err := s.inventoryRepo.Create(tx, destination); err != nil {
				return apperr.NewStore("inventory transfer destination create", err)
			}
		default:
			return apperr.NewStore("inventory transfer destination lookup", err)
		}

		// 5. Update the source: drained pools are deleted, not kept at zero
		newSourceQty := source.Qty.Sub(req.TransferQty)
		if newSourceQty.IsZero() {
			if err := s.inventoryRepo.Delete(tx, source.ID); err != nil {
				return apperr.NewStore("inventory transfer source delete", err)
			}
			result.SourceDeleted = true
		} else {
			source.Qty = newSourceQty
			source.LastUpdated = now
			source.UpdatedBy = req.TransferredBy
			if err := s.inventoryRepo.Save(tx, source); err != nil {
				return apperr.NewStore("inventory transfer source update", err)
			}
		}

		// 6. Audit row covers both sides of the move
		audit := &model.AuditLog{
			ActionType: model.ActionInventoryTransfer,
			EntityType: "inventory_item",
			EntityID:   source.ID.String(),
			ActorID:    req.TransferredBy,
			Meta: model.JSONB{
				"from_location":  source.LocationID.String(),
				"to_location":    req.ToLocationID.String(),
				"qty":            req.TransferQty.String(),
				"reason":         req.Reason,
				"destination_id": destination.ID.String(),
			},
		}
		if err := s.auditRepo.Create(tx, audit); err != nil {
			return apperr.NewStore("inventory transfer audit", err)
		}

		result.Success = true
		result.SourceQty = newSourceQty
		result.DestinationID = destination.ID
		result.DestinationQty = destination.Qty
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred",
		zap.String("from_inventory_id", req.FromInventoryID.String()),
		zap.String("to_location_id", req.ToLocationID.String()),
		zap.String("qty", req.TransferQty.String()),
		zap.Bool("source_deleted", result.SourceDeleted),
	)

	go s.wsHub.Publish(map[string]interface{}{
		"type":            "stock_update",
		"action":          "inventory_transferred",
		"from_inventory":  req.FromInventoryID.String(),
		"to_location":     req.ToLocationID.String(),
		"qty":             req.TransferQty.String(),
		"destination_id":  result.DestinationID.String(),
		"destination_qty": result.DestinationQty.String(),
		"transferred_by":  req.TransferredBy,
	})

	return result, nil
}

func (s *inventoryService) GetInventory(locationID *uuid.UUID) ([]model.InventoryItem, error) {
	items, err := s.inventoryRepo.FindAll(locationID)
	if err != nil {
		return nil, apperr.NewStore("inventory list", err)
	}
	return items, nil
}

func (s *inventoryService) GetItem(id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("inventory item", id.String())
		}
		return nil, apperr.NewStore("inventory lookup", err)
	}
	return item, nil
}
