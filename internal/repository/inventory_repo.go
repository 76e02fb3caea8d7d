package repository

import (
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	FindAll(locationID *uuid.UUID) ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	FindPool(tx *gorm.DB, productID, batchID, locationID uuid.UUID) (*model.InventoryItem, error)
	Create(tx *gorm.DB, item *model.InventoryItem) error
	Save(tx *gorm.DB, item *model.InventoryItem) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	StockValuation() (decimal.Decimal, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) FindAll(locationID *uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	query := r.db.Preload("Product").Preload("Batch").Preload("Location")
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}
	err := query.Order("last_updated DESC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.Preload("Product").Preload("Batch").Preload("Location").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate locks the row for the duration of the surrounding
// transaction (pessimistic locking)
func (r *inventoryRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindPool resolves the single active row for a (product, batch, location)
// triple, locked for the surrounding transaction
func (r *inventoryRepo) FindPool(tx *gorm.DB, productID, batchID, locationID uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where("product_id = ? AND batch_id = ? AND location_id = ?", productID, batchID, locationID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) Create(tx *gorm.DB, item *model.InventoryItem) error {
	return tx.Create(item).Error
}

func (r *inventoryRepo) Save(tx *gorm.DB, item *model.InventoryItem) error {
	return tx.Save(item).Error
}

// Delete removes a pool permanently. Hard delete: the unique index on
// (product, batch, location) must stay free for a future re-stock.
func (r *inventoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&model.InventoryItem{}, "id = ?", id).Error
}

func (r *inventoryRepo) StockValuation() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.InventoryItem{}).
		Joins("JOIN products ON products.id = inventory_items.product_id").
		Select("COALESCE(SUM(inventory_items.qty * products.price), 0)").
		Scan(&total).Error
	return total, err
}
