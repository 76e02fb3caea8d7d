package service

import (
	"encoding/json"
	"errors"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeliveryItem is one line of what was actually handed over at a stop
type DeliveryItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

type UpdateDeliveryRequest struct {
	Status       model.DeliveryStatus `json:"status"`
	DeliveredQty *decimal.Decimal     `json:"delivered_qty"`
	Items        json.RawMessage      `json:"items"`
	Note         string               `json:"note"`
}

// UpdateDeliveryResult distinguishes a trusted confirmation from a
// best-effort one: ItemsParsed is false when the items payload was
// malformed and only the status change was applied.
type UpdateDeliveryResult struct {
	Delivery    *model.Delivery `json:"delivery"`
	ItemsParsed bool            `json:"items_parsed"`
}

type DeliveryService interface {
	UpdateStatus(id uuid.UUID, req *UpdateDeliveryRequest, updaterID string) (*UpdateDeliveryResult, error)
	GetDelivery(id uuid.UUID) (*model.Delivery, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	wsHub        *ws.Hub
	logger       *zap.Logger
}

func NewDeliveryService(deliveryRepo repository.DeliveryRepository, hub *ws.Hub, logger *zap.Logger) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		wsHub:        hub,
		logger:       logger,
	}
}

var validDeliveryStatuses = map[model.DeliveryStatus]bool{
	model.DeliveryPending:   true,
	model.DeliveryInTransit: true,
	model.DeliveryDelivered: true,
	model.DeliveryPartial:   true,
	model.DeliveryReturned:  true,
	model.DeliveryFailed:    true,
	model.DeliveryCancelled: true,
}

// UpdateStatus moves a delivery through its lifecycle. The items payload is
// soft-fail enrichment: a malformed list is logged and reported via
// ItemsParsed, but never blocks the status write itself.
func (s *deliveryService) UpdateStatus(id uuid.UUID, req *UpdateDeliveryRequest, updaterID string) (*UpdateDeliveryResult, error) {
	// 1. Validate the requested status
	if !validDeliveryStatuses[req.Status] {
		return nil, apperr.NewValidation("status", "unknown delivery status '"+string(req.Status)+"'")
	}

	// 2. Load the delivery
	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("delivery", id.String())
		}
		return nil, apperr.NewStore("delivery lookup", err)
	}

	// 3. Terminal deliveries are immutable
	if delivery.Status.IsTerminal() {
		return nil, apperr.NewInvalidState("delivery is already " + string(delivery.Status) + " and cannot be updated")
	}

	delivery.Status = req.Status
	delivery.UpdatedBy = updaterID
	if req.DeliveredQty != nil {
		if req.DeliveredQty.IsNegative() {
			return nil, apperr.NewValidation("delivered_qty", "delivered quantity cannot be negative")
		}
		delivery.DeliveredQty = *req.DeliveredQty
	}
	if req.Note != "" {
		delivery.Note = req.Note
	}

	// 4. Best-effort items parse
	itemsParsed := true
	if len(req.Items) > 0 {
		var items []DeliveryItem
		if err := json.Unmarshal(req.Items, &items); err != nil {
			itemsParsed = false
			s.logger.Warn("malformed delivery items payload ignored",
				zap.String("delivery_id", id.String()),
				zap.Error(err),
			)
		} else {
			delivery.Items = req.Items
		}
	}

	// 5. Persist the status change
	if err := s.deliveryRepo.Save(delivery); err != nil {
		return nil, apperr.NewStore("delivery status update", err)
	}

	go s.wsHub.Publish(map[string]interface{}{
		"type":        "delivery_update",
		"delivery_id": delivery.ID.String(),
		"route_id":    delivery.RouteID.String(),
		"shop_id":     delivery.ShopID.String(),
		"status":      string(delivery.Status),
		"updated_by":  updaterID,
	})

	return &UpdateDeliveryResult{Delivery: delivery, ItemsParsed: itemsParsed}, nil
}

func (s *deliveryService) GetDelivery(id uuid.UUID) (*model.Delivery, error) {
	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("delivery", id.String())
		}
		return nil, apperr.NewStore("delivery lookup", err)
	}
	return delivery, nil
}
