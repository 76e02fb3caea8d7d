package service

import (
	"database/sql"

	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/ws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeTx runs the callback without a real database transaction. The fake
// repositories ignore their tx argument, so passing nil through is safe.
type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeAuditRepo struct {
	entries []model.AuditLog
	failErr error
}

func (f *fakeAuditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) FindRecent(actionType string, limit int) ([]model.AuditLog, error) {
	return f.entries, nil
}
