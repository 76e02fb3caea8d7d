package repository

import (
	"time"

	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchRepository interface {
	FindAll() ([]model.Batch, error)
	FindByID(id uuid.UUID) (*model.Batch, error)
	FindByBatchNo(batchNo string) (*model.Batch, error)
	CreateTx(tx *gorm.DB, batch *model.Batch) error
	UpdateQCStatus(tx *gorm.DB, id uuid.UUID, status model.QCStatus, checkedBy string, checkedAt time.Time) error
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) FindAll() ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.Preload("Product").Order("produced_at DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) FindByID(id uuid.UUID) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.Preload("Product").First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) FindByBatchNo(batchNo string) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.First(&batch, "batch_no = ?", batchNo).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// CreateTx runs inside the caller's transaction: batch creation stocks the
// plant location in the same unit of work
func (r *batchRepo) CreateTx(tx *gorm.DB, batch *model.Batch) error {
	return tx.Create(batch).Error
}

func (r *batchRepo) UpdateQCStatus(tx *gorm.DB, id uuid.UUID, status model.QCStatus, checkedBy string, checkedAt time.Time) error {
	return tx.Model(&model.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"qc_status":     status,
			"qc_checked_by": checkedBy,
			"qc_checked_at": checkedAt,
		}).Error
}
