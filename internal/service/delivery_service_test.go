package service

import (
	"encoding/json"
	"testing"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDeliveryService(repo *fakeDeliveryRepo) DeliveryService {
	return NewDeliveryService(repo, newTestHub(), zap.NewNop())
}

func TestUpdateStatusHappyPath(t *testing.T) {
	delivery := pendingDelivery(uuid.New(), uuid.New(), "40")
	repo := &fakeDeliveryRepo{deliveries: []*model.Delivery{delivery}}
	svc := newTestDeliveryService(repo)

	qty := dec("38.5")
	items := json.RawMessage(`[{"product_id":"` + uuid.New().String() + `","qty":"38.5"}]`)
	result, err := svc.UpdateStatus(delivery.ID, &UpdateDeliveryRequest{
		Status:       model.DeliveryDelivered,
		DeliveredQty: &qty,
		Items:        items,
		Note:         "two crates short",
	}, "agent-7")

	require.NoError(t, err)
	assert.True(t, result.ItemsParsed)
	assert.Equal(t, model.DeliveryDelivered, result.Delivery.Status)
	assert.True(t, result.Delivery.DeliveredQty.Equal(dec("38.5")))
	assert.Equal(t, "two crates short", result.Delivery.Note)
	assert.Equal(t, "agent-7", result.Delivery.UpdatedBy)

	stored, err := repo.FindByID(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryDelivered, stored.Status)
}

func TestUpdateStatusMalformedItemsStillApplies(t *testing.T) {
	delivery := pendingDelivery(uuid.New(), uuid.New(), "40")
	repo := &fakeDeliveryRepo{deliveries: []*model.Delivery{delivery}}
	svc := newTestDeliveryService(repo)

	result, err := svc.UpdateStatus(delivery.ID, &UpdateDeliveryRequest{
		Status: model.DeliveryPartial,
		Items:  json.RawMessage(`{"not":"a list"`),
	}, "agent-7")

	require.NoError(t, err, "malformed items must not block the status change")
	assert.False(t, result.ItemsParsed)
	assert.Equal(t, model.DeliveryPartial, result.Delivery.Status)

	stored, err := repo.FindByID(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryPartial, stored.Status)
	assert.Empty(t, stored.Items, "rejected payload must not be persisted")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestDeliveryService(&fakeDeliveryRepo{})

	_, err := svc.UpdateStatus(uuid.New(), &UpdateDeliveryRequest{
		Status: model.DeliveryStatus("misplaced"),
	}, "agent-7")

	var validation *apperr.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUpdateStatusTerminalIsImmutable(t *testing.T) {
	terminal := []model.DeliveryStatus{
		model.DeliveryDelivered,
		model.DeliveryReturned,
		model.DeliveryFailed,
		model.DeliveryCancelled,
	}
	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			delivery := pendingDelivery(uuid.New(), uuid.New(), "40")
			delivery.Status = status
			repo := &fakeDeliveryRepo{deliveries: []*model.Delivery{delivery}}
			svc := newTestDeliveryService(repo)

			_, err := svc.UpdateStatus(delivery.ID, &UpdateDeliveryRequest{
				Status: model.DeliveryPending,
			}, "agent-7")

			var invalidState *apperr.InvalidStateError
			require.ErrorAs(t, err, &invalidState)

			stored, err := repo.FindByID(delivery.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
		})
	}
}

func TestUpdateStatusRejectsNegativeDeliveredQty(t *testing.T) {
	delivery := pendingDelivery(uuid.New(), uuid.New(), "40")
	repo := &fakeDeliveryRepo{deliveries: []*model.Delivery{delivery}}
	svc := newTestDeliveryService(repo)

	qty := dec("-1")
	_, err := svc.UpdateStatus(delivery.ID, &UpdateDeliveryRequest{
		Status:       model.DeliveryDelivered,
		DeliveredQty: &qty,
	}, "agent-7")

	var validation *apperr.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newTestDeliveryService(&fakeDeliveryRepo{})

	_, err := svc.UpdateStatus(uuid.New(), &UpdateDeliveryRequest{
		Status: model.DeliveryInTransit,
	}, "agent-7")

	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
