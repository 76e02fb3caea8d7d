package service

import (
	"testing"
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRouteRepo struct {
	routes map[uuid.UUID]*model.Route
}

func newFakeRouteRepo(routes ...*model.Route) *fakeRouteRepo {
	f := &fakeRouteRepo{routes: make(map[uuid.UUID]*model.Route)}
	for _, route := range routes {
		f.routes[route.ID] = route
	}
	return f
}

func (f *fakeRouteRepo) FindAll(date *time.Time) ([]model.Route, error) {
	var out []model.Route
	for _, route := range f.routes {
		out = append(out, *route)
	}
	return out, nil
}

func (f *fakeRouteRepo) FindByID(id uuid.UUID) (*model.Route, error) {
	route, ok := f.routes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *route
	return &copied, nil
}

func (f *fakeRouteRepo) Create(route *model.Route) error {
	return f.Save(nil, route)
}

func (f *fakeRouteRepo) Save(tx *gorm.DB, route *model.Route) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	copied := *route
	f.routes[route.ID] = &copied
	return nil
}

// fakeDeliveryRepo tracks write counts so reconciliation tests can assert
// that an idempotent rerun issues no writes at all.
type fakeDeliveryRepo struct {
	deliveries []*model.Delivery

	creates int
	deletes int
	updates int
}

func (f *fakeDeliveryRepo) FindByRoute(routeID uuid.UUID) ([]model.Delivery, error) {
	var out []model.Delivery
	for _, d := range f.deliveries {
		if d.RouteID == routeID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) FindPendingByRoute(tx *gorm.DB, routeID uuid.UUID) ([]model.Delivery, error) {
	var out []model.Delivery
	for _, d := range f.deliveries {
		if d.RouteID == routeID && d.Status == model.DeliveryPending {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) FindByID(id uuid.UUID) (*model.Delivery, error) {
	for _, d := range f.deliveries {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeliveryRepo) Create(tx *gorm.DB, delivery *model.Delivery) error {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	copied := *delivery
	f.deliveries = append(f.deliveries, &copied)
	f.creates++
	return nil
}

func (f *fakeDeliveryRepo) DeletePending(tx *gorm.DB, routeID, shopID uuid.UUID) error {
	kept := f.deliveries[:0]
	for _, d := range f.deliveries {
		if d.RouteID == routeID && d.ShopID == shopID && d.Status == model.DeliveryPending {
			continue
		}
		kept = append(kept, d)
	}
	f.deliveries = kept
	f.deletes++
	return nil
}

func (f *fakeDeliveryRepo) UpdateExpectedQtyPending(tx *gorm.DB, routeID, shopID uuid.UUID, qty decimal.Decimal) error {
	for _, d := range f.deliveries {
		if d.RouteID == routeID && d.ShopID == shopID && d.Status == model.DeliveryPending {
			d.ExpectedQty = qty
		}
	}
	f.updates++
	return nil
}

func (f *fakeDeliveryRepo) Save(delivery *model.Delivery) error {
	for i, d := range f.deliveries {
		if d.ID == delivery.ID {
			copied := *delivery
			f.deliveries[i] = &copied
			return nil
		}
	}
	copied := *delivery
	f.deliveries = append(f.deliveries, &copied)
	return nil
}

func (f *fakeDeliveryRepo) CountByStatus(status model.DeliveryStatus) (int64, error) {
	var n int64
	for _, d := range f.deliveries {
		if d.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeDeliveryRepo) pendingQty(routeID, shopID uuid.UUID) (decimal.Decimal, bool) {
	for _, d := range f.deliveries {
		if d.RouteID == routeID && d.ShopID == shopID && d.Status == model.DeliveryPending {
			return d.ExpectedQty, true
		}
	}
	return decimal.Zero, false
}

func newTestRouteService(routeRepo *fakeRouteRepo, deliveryRepo *fakeDeliveryRepo) RouteService {
	return NewRouteService(routeRepo, deliveryRepo, fakeTx{}, zap.NewNop())
}

func TestCreateRouteMaterializesPendingDeliveries(t *testing.T) {
	routeRepo := newFakeRouteRepo()
	deliveryRepo := &fakeDeliveryRepo{}
	svc := newTestRouteService(routeRepo, deliveryRepo)

	shopA, shopB := uuid.New(), uuid.New()
	route, err := svc.CreateRoute(&CreateRouteRequest{
		Name:      "Morning North",
		AgentID:   uuid.New(),
		RouteDate: "2026-09-01",
		Stops: []model.RouteStop{
			{ShopID: shopA, ExpectedQty: dec("40")},
			{ShopID: shopB, ExpectedQty: dec("25")},
		},
	}, "supervisor-1")

	require.NoError(t, err)
	assert.Equal(t, model.RoutePlanned, route.Status)
	assert.Equal(t, 2, deliveryRepo.creates)

	qty, ok := deliveryRepo.pendingQty(route.ID, shopA)
	require.True(t, ok)
	assert.True(t, qty.Equal(dec("40")))
	qty, ok = deliveryRepo.pendingQty(route.ID, shopB)
	require.True(t, ok)
	assert.True(t, qty.Equal(dec("25")))
}

func TestCreateRouteRejectsBadDate(t *testing.T) {
	svc := newTestRouteService(newFakeRouteRepo(), &fakeDeliveryRepo{})

	_, err := svc.CreateRoute(&CreateRouteRequest{
		Name:      "Morning North",
		AgentID:   uuid.New(),
		RouteDate: "01-09-2026",
	}, "supervisor-1")

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "route_date", validation.Field)
}

func TestCreateRouteRejectsDuplicateShop(t *testing.T) {
	svc := newTestRouteService(newFakeRouteRepo(), &fakeDeliveryRepo{})

	shop := uuid.New()
	_, err := svc.CreateRoute(&CreateRouteRequest{
		Name:      "Morning North",
		AgentID:   uuid.New(),
		RouteDate: "2026-09-01",
		Stops: []model.RouteStop{
			{ShopID: shop, ExpectedQty: dec("10")},
			{ShopID: shop, ExpectedQty: dec("20")},
		},
	}, "supervisor-1")

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "stops", validation.Field)
}

func routeFixture(stops ...model.RouteStop) *model.Route {
	route := &model.Route{
		Name:      "Morning North",
		AgentID:   uuid.New(),
		RouteDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:    model.RoutePlanned,
		Stops:     stops,
	}
	route.ID = uuid.New()
	return route
}

func pendingDelivery(routeID, shopID uuid.UUID, qty string) *model.Delivery {
	d := &model.Delivery{
		RouteID:     routeID,
		ShopID:      shopID,
		ExpectedQty: dec(qty),
		Status:      model.DeliveryPending,
	}
	d.ID = uuid.New()
	return d
}

func TestUpdateRouteReconcilesStops(t *testing.T) {
	shopKept, shopRemoved, shopAdded := uuid.New(), uuid.New(), uuid.New()
	route := routeFixture(
		model.RouteStop{ShopID: shopKept, ExpectedQty: dec("40")},
		model.RouteStop{ShopID: shopRemoved, ExpectedQty: dec("25")},
	)
	routeRepo := newFakeRouteRepo(route)
	deliveryRepo := &fakeDeliveryRepo{deliveries: []*model.Delivery{
		pendingDelivery(route.ID, shopKept, "40"),
		pendingDelivery(route.ID, shopRemoved, "25"),
	}}
	svc := newTestRouteService(routeRepo, deliveryRepo)

	stops := []model.RouteStop{
		{ShopID: shopKept, ExpectedQty: dec("55")},
		{ShopID: shopAdded, ExpectedQty: dec("15")},
	}
	updated, err := svc.UpdateRoute(route.ID, &UpdateRouteRequest{Stops: &stops}, "supervisor-1")

	require.NoError(t, err)
	assert.Len(t, updated.Stops, 2)

	// Kept shop takes the new quantity
	qty, ok := deliveryRepo.pendingQty(route.ID, shopKept)
	require.True(t, ok)
	assert.True(t, qty.Equal(dec("55")))

	// New shop gains a pending delivery
	qty, ok = deliveryRepo.pendingQty(route.ID, shopAdded)
	require.True(t, ok)
	assert.True(t, qty.Equal(dec("15")))

	// Dropped shop loses its pending delivery
	_, ok = deliveryRepo.pendingQty(route.ID, shopRemoved)
	assert.False(t, ok)
}

func TestUpdateRouteLeavesProgressedDeliveriesAlone(t *testing.T) {
	shopDelivered, shopInTransit := uuid.New(), uuid.New()
	route := routeFixture(
		model.RouteStop{ShopID: shopDelivered, ExpectedQty: dec("40")},
		model.RouteStop{ShopID: shopInTransit, ExpectedQty: dec("25")},
	)

	delivered := pendingDelivery(route.ID, shopDelivered, "40")
	delivered.Status = model.DeliveryDelivered
	inTransit := pendingDelivery(route.ID, shopInTransit, "25")
	inTransit.Status = model.DeliveryInTransit

	routeRepo := newFakeRouteRepo(route)
	deliveryRepo := &fakeDeliveryRepo{deliveries: []*model.Delivery{delivered, inTransit}}
	svc := newTestRouteService(routeRepo, deliveryRepo)

	// Both shops leave the stop list entirely
	stops := []model.RouteStop{}
	_, err := svc.UpdateRoute(route.ID, &UpdateRouteRequest{Stops: &stops}, "supervisor-1")

	require.NoError(t, err)
	assert.Equal(t, model.DeliveryDelivered, deliveryRepo.deliveries[0].Status)
	assert.True(t, deliveryRepo.deliveries[0].ExpectedQty.Equal(dec("40")))
	assert.Equal(t, model.DeliveryInTransit, deliveryRepo.deliveries[1].Status)
	assert.Len(t, deliveryRepo.deliveries, 2)
}

func TestUpdateRouteReconciliationIsIdempotent(t *testing.T) {
	shopA, shopB := uuid.New(), uuid.New()
	route := routeFixture(
		model.RouteStop{ShopID: shopA, ExpectedQty: dec("40")},
	)
	routeRepo := newFakeRouteRepo(route)
	deliveryRepo := &fakeDeliveryRepo{deliveries: []*model.Delivery{
		pendingDelivery(route.ID, shopA, "40"),
	}}
	svc := newTestRouteService(routeRepo, deliveryRepo)

	stops := []model.RouteStop{
		{ShopID: shopA, ExpectedQty: dec("50")},
		{ShopID: shopB, ExpectedQty: dec("20")},
	}
	_, err := svc.UpdateRoute(route.ID, &UpdateRouteRequest{Stops: &stops}, "supervisor-1")
	require.NoError(t, err)

	creates, deletes, updates := deliveryRepo.creates, deliveryRepo.deletes, deliveryRepo.updates

	// Same stop list again: the delivery set is already converged, so the
	// second pass must issue no delivery writes
	_, err = svc.UpdateRoute(route.ID, &UpdateRouteRequest{Stops: &stops}, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, creates, deliveryRepo.creates)
	assert.Equal(t, deletes, deliveryRepo.deletes)
	assert.Equal(t, updates, deliveryRepo.updates)

	qty, ok := deliveryRepo.pendingQty(route.ID, shopA)
	require.True(t, ok)
	assert.True(t, qty.Equal(dec("50")))
}

func TestUpdateRouteWithoutStopsSkipsReconciliation(t *testing.T) {
	route := routeFixture()
	routeRepo := newFakeRouteRepo(route)
	deliveryRepo := &fakeDeliveryRepo{}
	svc := newTestRouteService(routeRepo, deliveryRepo)

	name := "Evening South"
	status := model.RouteActive
	updated, err := svc.UpdateRoute(route.ID, &UpdateRouteRequest{Name: &name, Status: &status}, "supervisor-1")

	require.NoError(t, err)
	assert.Equal(t, "Evening South", updated.Name)
	assert.Equal(t, model.RouteActive, updated.Status)
	assert.Zero(t, deliveryRepo.creates)
	assert.Zero(t, deliveryRepo.deletes)
}

func TestUpdateRouteNotFound(t *testing.T) {
	svc := newTestRouteService(newFakeRouteRepo(), &fakeDeliveryRepo{})

	name := "Anything"
	_, err := svc.UpdateRoute(uuid.New(), &UpdateRouteRequest{Name: &name}, "supervisor-1")

	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
