package repository

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxRunner abstracts gorm's transaction entrypoint so the services can run
// multi-statement operations atomically, and so tests can substitute a
// fake that just invokes the callback. *gorm.DB satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
