package repository

import (
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	FindByRoute(routeID uuid.UUID) ([]model.Delivery, error)
	FindPendingByRoute(tx *gorm.DB, routeID uuid.UUID) ([]model.Delivery, error)
	FindByID(id uuid.UUID) (*model.Delivery, error)
	Create(tx *gorm.DB, delivery *model.Delivery) error
	DeletePending(tx *gorm.DB, routeID, shopID uuid.UUID) error
	UpdateExpectedQtyPending(tx *gorm.DB, routeID, shopID uuid.UUID, qty decimal.Decimal) error
	Save(delivery *model.Delivery) error
	CountByStatus(status model.DeliveryStatus) (int64, error)
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db}
}

func (r *deliveryRepo) FindByRoute(routeID uuid.UUID) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.Preload("Shop").Where("route_id = ?", routeID).Order("created_at ASC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) FindPendingByRoute(tx *gorm.DB, routeID uuid.UUID) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := tx.Where("route_id = ? AND status = ?", routeID, model.DeliveryPending).Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) FindByID(id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.Preload("Shop").Preload("Route").First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepo) Create(tx *gorm.DB, delivery *model.Delivery) error {
	return tx.Create(delivery).Error
}

// DeletePending removes only still-pending rows for the (route, shop) pair.
// In-flight and terminal deliveries stay untouched.
func (r *deliveryRepo) DeletePending(tx *gorm.DB, routeID, shopID uuid.UUID) error {
	return tx.Where("route_id = ? AND shop_id = ? AND status = ?", routeID, shopID, model.DeliveryPending).
		Delete(&model.Delivery{}).Error
}

// UpdateExpectedQtyPending is scoped by status=pending so route edits never
// rewrite a delivery that already left the depot
func (r *deliveryRepo) UpdateExpectedQtyPending(tx *gorm.DB, routeID, shopID uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.Delivery{}).
		Where("route_id = ? AND shop_id = ? AND status = ?", routeID, shopID, model.DeliveryPending).
		Update("expected_qty", qty).Error
}

func (r *deliveryRepo) Save(delivery *model.Delivery) error {
	return r.db.Save(delivery).Error
}

func (r *deliveryRepo) CountByStatus(status model.DeliveryStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Delivery{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
