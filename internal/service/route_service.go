package service

import (
	"errors"
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateRouteRequest struct {
	Name      string            `json:"name"`
	AgentID   uuid.UUID         `json:"agent_id"`
	RouteDate string            `json:"route_date"` // YYYY-MM-DD
	Stops     []model.RouteStop `json:"stops"`
}

// UpdateRouteRequest uses pointers so absent fields stay untouched. A
// non-nil Stops list triggers reconciliation of the route's pending
// deliveries as a side effect.
type UpdateRouteRequest struct {
	Name      *string            `json:"name"`
	AgentID   *uuid.UUID         `json:"agent_id"`
	RouteDate *string            `json:"route_date"`
	Status    *model.RouteStatus `json:"status"`
	Stops     *[]model.RouteStop `json:"stops"`
}

type RouteService interface {
	CreateRoute(req *CreateRouteRequest, creatorID string) (*model.Route, error)
	UpdateRoute(id uuid.UUID, req *UpdateRouteRequest, updaterID string) (*model.Route, error)
	GetRoutes(date *time.Time) ([]model.Route, error)
	GetRoute(id uuid.UUID) (*model.Route, error)
	GetRouteDeliveries(id uuid.UUID) ([]model.Delivery, error)
}

type routeService struct {
	routeRepo    repository.RouteRepository
	deliveryRepo repository.DeliveryRepository
	tx           repository.TxRunner
	logger       *zap.Logger
}

func NewRouteService(routeRepo repository.RouteRepository, deliveryRepo repository.DeliveryRepository, tx repository.TxRunner, logger *zap.Logger) RouteService {
	return &routeService{
		routeRepo:    routeRepo,
		deliveryRepo: deliveryRepo,
		tx:           tx,
		logger:       logger,
	}
}

func (s *routeService) CreateRoute(req *CreateRouteRequest, creatorID string) (*model.Route, error) {
	// 1. Validate input
	if req.Name == "" {
		return nil, apperr.NewValidation("name", "route name is required")
	}
	if req.AgentID == uuid.Nil {
		return nil, apperr.NewValidation("agent_id", "agent is required")
	}
	routeDate, err := time.Parse("2006-01-02", req.RouteDate)
	if err != nil {
		return nil, apperr.NewValidation("route_date", "invalid date format, use YYYY-MM-DD")
	}
	if err := validateStops(req.Stops); err != nil {
		return nil, err
	}

	route := &model.Route{
		Name:      req.Name,
		AgentID:   req.AgentID,
		RouteDate: routeDate,
		Status:    model.RoutePlanned,
		Stops:     req.Stops,
	}
	route.CreatedBy = creatorID
	route.UpdatedBy = creatorID

	// 2. Create the route and materialize its pending deliveries together
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.routeRepo.Save(tx, route); err != nil {
			return apperr.NewStore("route create", err)
		}
		return s.reconcileStops(tx, route, req.Stops, creatorID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("route created",
		zap.String("route_id", route.ID.String()),
		zap.Int("stops", len(req.Stops)),
	)

	return route, nil
}

func (s *routeService) UpdateRoute(id uuid.UUID, req *UpdateRouteRequest, updaterID string) (*model.Route, error) {
	// 1. Load the route
	route, err := s.routeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("route", id.String())
		}
		return nil, apperr.NewStore("route lookup", err)
	}

	// 2. Apply field updates
	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.NewValidation("name", "route name cannot be empty")
		}
		route.Name = *req.Name
	}
	if req.AgentID != nil {
		if *req.AgentID == uuid.Nil {
			return nil, apperr.NewValidation("agent_id", "agent cannot be empty")
		}
		route.AgentID = *req.AgentID
	}
	if req.RouteDate != nil {
		routeDate, err := time.Parse("2006-01-02", *req.RouteDate)
		if err != nil {
			return nil, apperr.NewValidation("route_date", "invalid date format, use YYYY-MM-DD")
		}
		route.RouteDate = routeDate
	}
	if req.Status != nil {
		route.Status = *req.Status
	}
	if req.Stops != nil {
		if err := validateStops(*req.Stops); err != nil {
			return nil, err
		}
		route.Stops = *req.Stops
	}
	route.UpdatedBy = updaterID

	// 3. Persist: the stop list and its reconciled deliveries commit in one
	// transaction
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.routeRepo.Save(tx, route); err != nil {
			return apperr.NewStore("route update", err)
		}
		if req.Stops != nil {
			return s.reconcileStops(tx, route, *req.Stops, updaterID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return route, nil
}

// reconcileStops diffs the desired stop list against the route's pending
// deliveries so exactly one pending delivery exists per desired shop.
// Deliveries that already left pending represent real-world progress and
// are never deleted or rewritten here. Each phase is a set difference
// recomputed from current state, so rerunning the whole reconciliation is
// idempotent.
func (s *routeService) reconcileStops(tx *gorm.DB, route *model.Route, desired []model.RouteStop, actorID string) error {
	existing, err := s.deliveryRepo.FindPendingByRoute(tx, route.ID)
	if err != nil {
		return apperr.NewStore("route reconciliation lookup", err)
	}

	desiredByShop := make(map[uuid.UUID]model.RouteStop, len(desired))
	for _, stop := range desired {
		desiredByShop[stop.ShopID] = stop
	}
	existingByShop := make(map[uuid.UUID]model.Delivery, len(existing))
	for _, delivery := range existing {
		existingByShop[delivery.ShopID] = delivery
	}

	// Additions: desired shops with no pending delivery yet
	for shopID, stop := range desiredByShop {
		if _, ok := existingByShop[shopID]; ok {
			continue
		}
		delivery := &model.Delivery{
			RouteID:     route.ID,
			ShopID:      shopID,
			ExpectedQty: stop.ExpectedQty,
			Status:      model.DeliveryPending,
		}
		delivery.CreatedBy = actorID
		delivery.UpdatedBy = actorID
		if err := s.deliveryRepo.Create(tx, delivery); err != nil {
			return apperr.NewStore("route reconciliation create", err)
		}
	}

	// Removals: pending deliveries whose shop left the stop list
	for shopID := range existingByShop {
		if _, ok := desiredByShop[shopID]; ok {
			continue
		}
		if err := s.deliveryRepo.DeletePending(tx, route.ID, shopID); err != nil {
			return apperr.NewStore("route reconciliation delete", err)
		}
	}

	// Updates: shops present in both sets take the new expected quantity.
	// Unchanged quantities are skipped so a rerun issues no writes.
	for shopID, delivery := range existingByShop {
		stop, ok := desiredByShop[shopID]
		if !ok {
			continue
		}
		if delivery.ExpectedQty.Equal(stop.ExpectedQty) {
			continue
		}
		if err := s.deliveryRepo.UpdateExpectedQtyPending(tx, route.ID, shopID, stop.ExpectedQty); err != nil {
			return apperr.NewStore("route reconciliation update", err)
		}
	}

	return nil
}

func validateStops(stops []model.RouteStop) error {
	seen := make(map[uuid.UUID]bool, len(stops))
	for _, stop := range stops {
		if stop.ShopID == uuid.Nil {
			return apperr.NewValidation("stops", "every stop needs a shop_id")
		}
		if stop.ExpectedQty.IsNegative() {
			return apperr.NewValidation("stops", "expected_qty cannot be negative")
		}
		if seen[stop.ShopID] {
			return apperr.NewValidation("stops", "duplicate shop in stop list")
		}
		seen[stop.ShopID] = true
	}
	return nil
}

func (s *routeService) GetRoutes(date *time.Time) ([]model.Route, error) {
	routes, err := s.routeRepo.FindAll(date)
	if err != nil {
		return nil, apperr.NewStore("route list", err)
	}
	return routes, nil
}

func (s *routeService) GetRoute(id uuid.UUID) (*model.Route, error) {
	route, err := s.routeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("route", id.String())
		}
		return nil, apperr.NewStore("route lookup", err)
	}
	return route, nil
}

func (s *routeService) GetRouteDeliveries(id uuid.UUID) ([]model.Delivery, error) {
	deliveries, err := s.deliveryRepo.FindByRoute(id)
	if err != nil {
		return nil, apperr.NewStore("delivery list", err)
	}
	return deliveries, nil
}
