package repository

import (
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	FindAll(account string, cleared *bool) ([]model.LedgerEntry, error)
	FindByID(id uuid.UUID) (*model.LedgerEntry, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.LedgerEntry, error)
	Create(entry *model.LedgerEntry) error
	CreateTx(tx *gorm.DB, entry *model.LedgerEntry) error
	UpdateReference(tx *gorm.DB, id uuid.UUID, reference string) error
	UnclearedTotal() (decimal.Decimal, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) FindAll(account string, cleared *bool) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	query := r.db.Order("created_at DESC")
	if account != "" {
		query = query.Where("from_account = ? OR to_account = ?", account, account)
	}
	if cleared != nil {
		query = query.Where("cleared = ?", *cleared)
	}
	err := query.Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) FindByID(id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := r.db.First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByIDForUpdate locks the original entry while a refund is posted
// against it
func (r *ledgerRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepo) Create(entry *model.LedgerEntry) error {
	return r.db.Create(entry).Error
}

func (r *ledgerRepo) CreateTx(tx *gorm.DB, entry *model.LedgerEntry) error {
	return tx.Create(entry).Error
}

// UpdateReference annotates an entry's reference string. The only
// non-append write the ledger allows.
func (r *ledgerRepo) UpdateReference(tx *gorm.DB, id uuid.UUID, reference string) error {
	return tx.Model(&model.LedgerEntry{}).Where("id = ?", id).Update("reference", reference).Error
}

func (r *ledgerRepo) UnclearedTotal() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.LedgerEntry{}).
		Where("cleared = ?", false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
