package service

import (
	"testing"
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newFakeSupplierRepo(suppliers ...*model.Supplier) *fakeSupplierRepo {
	f := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		f.suppliers[s.ID] = s
	}
	return f
}

func (f *fakeSupplierRepo) FindAll(activeOnly bool) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range f.suppliers {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSupplierRepo) FindByCode(code string) (*model.Supplier, error) {
	for _, s := range f.suppliers {
		if s.Code == code {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSupplierRepo) Create(supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	copied := *supplier
	f.suppliers[supplier.ID] = &copied
	return nil
}

func (f *fakeSupplierRepo) Update(supplier *model.Supplier) error {
	copied := *supplier
	f.suppliers[supplier.ID] = &copied
	return nil
}

type fakeCollectionRepo struct {
	collections []*model.MilkCollection
}

func (f *fakeCollectionRepo) FindAll(supplierID *uuid.UUID, startDate, endDate time.Time) ([]model.MilkCollection, error) {
	var out []model.MilkCollection
	for _, c := range f.collections {
		if supplierID != nil && c.SupplierID != *supplierID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCollectionRepo) CreateTx(tx *gorm.DB, collection *model.MilkCollection) error {
	if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}
	copied := *collection
	f.collections = append(f.collections, &copied)
	return nil
}

func (f *fakeCollectionRepo) DailyTotals(startDate, endDate time.Time) ([]repository.CollectionTotal, error) {
	return nil, nil
}

func (f *fakeCollectionRepo) TotalSince(since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range f.collections {
		if !c.CollectedAt.Before(since) {
			total = total.Add(c.QtyLiters)
		}
	}
	return total, nil
}

func supplierFixture(code string, active bool) *model.Supplier {
	s := &model.Supplier{
		Code:     code,
		Name:     "Patel Dairy Farm",
		Village:  "Warje",
		IsActive: active,
	}
	s.ID = uuid.New()
	return s
}

func newTestCollectionService(collections *fakeCollectionRepo, suppliers *fakeSupplierRepo, ledger *fakeLedgerRepo) CollectionService {
	return NewCollectionService(collections, suppliers, ledger, fakeTx{}, zap.NewNop())
}

func TestRecordCollectionPostsPayable(t *testing.T) {
	supplier := supplierFixture("SUP-017", true)
	collections := &fakeCollectionRepo{}
	ledger := newFakeLedgerRepo()
	svc := newTestCollectionService(collections, newFakeSupplierRepo(supplier), ledger)

	collection, err := svc.RecordCollection(&RecordCollectionRequest{
		SupplierID: supplier.ID,
		Shift:      "morning",
		QtyLiters:  dec("120.5"),
		FatPct:     dec("4.2"),
		SnfPct:     dec("8.6"),
		Rate:       dec("38"),
	}, "clerk-1")

	require.NoError(t, err)
	assert.True(t, collection.Amount.Equal(dec("4579")), "amount = qty * rate, got %s", collection.Amount)
	require.Len(t, collections.collections, 1)

	payables := ledger.byReferencePrefix("COLLECTION-")
	require.Len(t, payables, 1)
	assert.Equal(t, "DAIRY", payables[0].FromAccount)
	assert.Equal(t, "SUPPLIER:SUP-017", payables[0].ToAccount)
	assert.True(t, payables[0].Amount.Equal(dec("4579")))
	assert.Equal(t, model.ModeAdjusted, payables[0].Mode)
	assert.False(t, payables[0].Cleared, "payables start uncleared")
}

func TestRecordCollectionWithoutRateSkipsLedger(t *testing.T) {
	supplier := supplierFixture("SUP-017", true)
	collections := &fakeCollectionRepo{}
	ledger := newFakeLedgerRepo()
	svc := newTestCollectionService(collections, newFakeSupplierRepo(supplier), ledger)

	collection, err := svc.RecordCollection(&RecordCollectionRequest{
		SupplierID: supplier.ID,
		QtyLiters:  dec("80"),
	}, "clerk-1")

	require.NoError(t, err)
	assert.True(t, collection.Amount.IsZero())
	assert.Len(t, collections.collections, 1)
	assert.Empty(t, ledger.entries)
}

func TestRecordCollectionRejectsInactiveSupplier(t *testing.T) {
	supplier := supplierFixture("SUP-099", false)
	collections := &fakeCollectionRepo{}
	svc := newTestCollectionService(collections, newFakeSupplierRepo(supplier), newFakeLedgerRepo())

	_, err := svc.RecordCollection(&RecordCollectionRequest{
		SupplierID: supplier.ID,
		QtyLiters:  dec("50"),
	}, "clerk-1")

	var invalidState *apperr.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Empty(t, collections.collections)
}

func TestRecordCollectionUnknownSupplier(t *testing.T) {
	svc := newTestCollectionService(&fakeCollectionRepo{}, newFakeSupplierRepo(), newFakeLedgerRepo())

	_, err := svc.RecordCollection(&RecordCollectionRequest{
		SupplierID: uuid.New(),
		QtyLiters:  dec("50"),
	}, "clerk-1")

	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRecordCollectionRequiresPositiveQty(t *testing.T) {
	svc := newTestCollectionService(&fakeCollectionRepo{}, newFakeSupplierRepo(), newFakeLedgerRepo())

	_, err := svc.RecordCollection(&RecordCollectionRequest{
		SupplierID: uuid.New(),
		QtyLiters:  decimal.Zero,
	}, "clerk-1")

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "qty_liters", validation.Field)
}
