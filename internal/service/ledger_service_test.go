package service

import (
	"testing"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLedgerRepo struct {
	entries map[uuid.UUID]*model.LedgerEntry
}

func newFakeLedgerRepo(entries ...*model.LedgerEntry) *fakeLedgerRepo {
	f := &fakeLedgerRepo{entries: make(map[uuid.UUID]*model.LedgerEntry)}
	for _, entry := range entries {
		f.entries[entry.ID] = entry
	}
	return f
}

func (f *fakeLedgerRepo) FindAll(account string, cleared *bool) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, entry := range f.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (f *fakeLedgerRepo) FindByID(id uuid.UUID) (*model.LedgerEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeLedgerRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.LedgerEntry, error) {
	return f.FindByID(id)
}

func (f *fakeLedgerRepo) Create(entry *model.LedgerEntry) error {
	return f.CreateTx(nil, entry)
}

func (f *fakeLedgerRepo) CreateTx(tx *gorm.DB, entry *model.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeLedgerRepo) UpdateReference(tx *gorm.DB, id uuid.UUID, reference string) error {
	entry, ok := f.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Reference = reference
	return nil
}

func (f *fakeLedgerRepo) UnclearedTotal() (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeLedgerRepo) byReferencePrefix(prefix string) []*model.LedgerEntry {
	var out []*model.LedgerEntry
	for _, entry := range f.entries {
		if len(entry.Reference) >= len(prefix) && entry.Reference[:len(prefix)] == prefix {
			out = append(out, entry)
		}
	}
	return out
}

func ledgerFixture(amount string) *model.LedgerEntry {
	entry := &model.LedgerEntry{
		FromAccount: "SHOP:anand-stores",
		ToAccount:   "DAIRY",
		Amount:      dec(amount),
		Mode:        model.ModeUPI,
		Cleared:     true,
		Reference:   "INV-1042",
	}
	entry.ID = uuid.New()
	return entry
}

func newTestLedgerService(repo *fakeLedgerRepo, audit *fakeAuditRepo, allowMultiple bool) LedgerService {
	return NewLedgerService(repo, audit, fakeTx{}, zap.NewNop(), allowMultiple)
}

func TestCreateEntryValidation(t *testing.T) {
	svc := newTestLedgerService(newFakeLedgerRepo(), &fakeAuditRepo{}, false)

	cases := []struct {
		name  string
		req   CreateLedgerEntryRequest
		field string
	}{
		{"missing from", CreateLedgerEntryRequest{ToAccount: "DAIRY", Amount: dec("10"), Mode: model.ModeCash}, "from_account"},
		{"missing to", CreateLedgerEntryRequest{FromAccount: "DAIRY", Amount: dec("10"), Mode: model.ModeCash}, "to_account"},
		{"zero amount", CreateLedgerEntryRequest{FromAccount: "A", ToAccount: "B", Mode: model.ModeCash}, "amount"},
		{"negative amount", CreateLedgerEntryRequest{FromAccount: "A", ToAccount: "B", Amount: dec("-5"), Mode: model.ModeCash}, "amount"},
		{"missing mode", CreateLedgerEntryRequest{FromAccount: "A", ToAccount: "B", Amount: dec("10")}, "mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEntry(&tc.req, "clerk-1")
			var validation *apperr.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestCreateEntryPersists(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := newTestLedgerService(repo, &fakeAuditRepo{}, false)

	entry, err := svc.CreateEntry(&CreateLedgerEntryRequest{
		FromAccount: "SHOP:anand-stores",
		ToAccount:   "DAIRY",
		Amount:      dec("1250.50"),
		Mode:        model.ModeUPI,
		Reference:   "INV-1042",
	}, "clerk-1")

	require.NoError(t, err)
	assert.Equal(t, "clerk-1", entry.CreatedBy)
	assert.False(t, entry.Cleared)
	require.Contains(t, repo.entries, entry.ID)
}

func TestRefundEntryDefaultsToFullAmount(t *testing.T) {
	original := ledgerFixture("1250.50")
	repo := newFakeLedgerRepo(original)
	audit := &fakeAuditRepo{}
	svc := newTestLedgerService(repo, audit, false)

	refund, err := svc.RefundEntry(original.ID, &RefundRequest{CreatedBy: "clerk-1"})

	require.NoError(t, err)
	assert.Equal(t, original.ToAccount, refund.FromAccount)
	assert.Equal(t, original.FromAccount, refund.ToAccount)
	assert.True(t, refund.Amount.Equal(dec("1250.50")))
	assert.Equal(t, original.Mode, refund.Mode)
	assert.True(t, refund.Cleared, "refunds settle immediately")
	assert.Equal(t, "REFUND-INV-1042", refund.Reference)

	// Original annotated, not rewritten
	stored := repo.entries[original.ID]
	assert.Equal(t, "INV-1042"+RefundedSuffix, stored.Reference)
	assert.True(t, stored.Amount.Equal(dec("1250.50")))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, model.ActionLedgerRefund, audit.entries[0].ActionType)
	assert.Equal(t, original.ID.String(), audit.entries[0].EntityID)
}

func TestRefundEntryFallsBackToIDReference(t *testing.T) {
	original := ledgerFixture("100")
	original.Reference = ""
	repo := newFakeLedgerRepo(original)
	svc := newTestLedgerService(repo, &fakeAuditRepo{}, false)

	refund, err := svc.RefundEntry(original.ID, &RefundRequest{CreatedBy: "clerk-1"})

	require.NoError(t, err)
	assert.Equal(t, "REFUND-"+original.ID.String(), refund.Reference)
}

func TestRefundEntryPartialAmount(t *testing.T) {
	original := ledgerFixture("1000")
	repo := newFakeLedgerRepo(original)
	svc := newTestLedgerService(repo, &fakeAuditRepo{}, false)

	amount := dec("400")
	refund, err := svc.RefundEntry(original.ID, &RefundRequest{Amount: &amount, CreatedBy: "clerk-1"})

	require.NoError(t, err)
	assert.True(t, refund.Amount.Equal(dec("400")))
}

func TestRefundEntryRejectsExcessAmount(t *testing.T) {
	original := ledgerFixture("1000")
	repo := newFakeLedgerRepo(original)
	audit := &fakeAuditRepo{}
	svc := newTestLedgerService(repo, audit, false)

	amount := dec("1000.01")
	_, err := svc.RefundEntry(original.ID, &RefundRequest{Amount: &amount, CreatedBy: "clerk-1"})

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "amount", validation.Field)

	// Nothing persisted
	assert.Len(t, repo.entries, 1)
	assert.Equal(t, "INV-1042", repo.entries[original.ID].Reference)
	assert.Empty(t, audit.entries)
}

func TestRefundEntryRejectsSecondRefundByDefault(t *testing.T) {
	original := ledgerFixture("500")
	repo := newFakeLedgerRepo(original)
	svc := newTestLedgerService(repo, &fakeAuditRepo{}, false)

	_, err := svc.RefundEntry(original.ID, &RefundRequest{CreatedBy: "clerk-1"})
	require.NoError(t, err)

	_, err = svc.RefundEntry(original.ID, &RefundRequest{CreatedBy: "clerk-1"})
	var invalidState *apperr.InvalidStateError
	require.ErrorAs(t, err, &invalidState)

	assert.Len(t, repo.byReferencePrefix("REFUND-"), 1)
}

func TestRefundEntryMultipleRefundPolicy(t *testing.T) {
	original := ledgerFixture("500")
	repo := newFakeLedgerRepo(original)
	svc := newTestLedgerService(repo, &fakeAuditRepo{}, true)

	first := dec("200")
	_, err := svc.RefundEntry(original.ID, &RefundRequest{Amount: &first, CreatedBy: "clerk-1"})
	require.NoError(t, err)

	second := dec("300")
	refund, err := svc.RefundEntry(original.ID, &RefundRequest{Amount: &second, CreatedBy: "clerk-1"})
	require.NoError(t, err)

	// The second refund still targets the clean reference, and the
	// annotation is applied only once
	assert.Equal(t, "REFUND-INV-1042", refund.Reference)
	assert.Equal(t, "INV-1042"+RefundedSuffix, repo.entries[original.ID].Reference)
	assert.Len(t, repo.byReferencePrefix("REFUND-"), 2)
}

func TestRefundEntryNotFound(t *testing.T) {
	svc := newTestLedgerService(newFakeLedgerRepo(), &fakeAuditRepo{}, false)

	_, err := svc.RefundEntry(uuid.New(), &RefundRequest{CreatedBy: "clerk-1"})

	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
