package service

import (
	"errors"
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateBatchRequest struct {
	BatchNo    string          `json:"batch_no"`
	ProductID  uuid.UUID       `json:"product_id"`
	YieldQty   decimal.Decimal `json:"yield_qty"`
	Uom        string          `json:"uom"`
	ProducedAt *time.Time      `json:"produced_at"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	LocationID uuid.UUID       `json:"location_id"` // Where the yield is stocked in
}

type BatchService interface {
	CreateBatch(req *CreateBatchRequest, creatorID string) (*model.Batch, error)
	UpdateQCStatus(id uuid.UUID, status model.QCStatus, checkedBy string) (*model.Batch, error)
	GetBatches() ([]model.Batch, error)
	GetBatch(id uuid.UUID) (*model.Batch, error)
}

type batchService struct {
	batchRepo     repository.BatchRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	tx            repository.TxRunner
	logger        *zap.Logger
}

func NewBatchService(batchRepo repository.BatchRepository, productRepo repository.ProductRepository, invRepo repository.InventoryRepository, auditRepo repository.AuditRepository, tx repository.TxRunner, logger *zap.Logger) BatchService {
	return &batchService{
		batchRepo:     batchRepo,
		productRepo:   productRepo,
		inventoryRepo: invRepo,
		auditRepo:     auditRepo,
		tx:            tx,
		logger:        logger,
	}
}

// CreateBatch records a production run and stocks its yield into the given
// location in one transaction (first stock-in creates the pool, a repeat
// run for the same triple merges into it).
func (s *batchService) CreateBatch(req *CreateBatchRequest, creatorID string) (*model.Batch, error) {
	// 1. Validate input
	if req.BatchNo == "" {
		return nil, apperr.NewValidation("batch_no", "batch number is required")
	}
	if req.ProductID == uuid.Nil {
		return nil, apperr.NewValidation("product_id", "product is required")
	}
	if !req.YieldQty.GreaterThan(decimal.Zero) {
		return nil, apperr.NewValidation("yield_qty", "yield quantity must be greater than zero")
	}
	if req.LocationID == uuid.Nil {
		return nil, apperr.NewValidation("location_id", "stock-in location is required")
	}

	// 2. Check product exists
	if _, err := s.productRepo.FindByID(req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("product", req.ProductID.String())
		}
		return nil, apperr.NewStore("product lookup", err)
	}

	// 3. Check batch number is free
	if existing, _ := s.batchRepo.FindByBatchNo(req.BatchNo); existing != nil && existing.ID != uuid.Nil {
		return nil, apperr.NewInvalidState("batch number '" + req.BatchNo + "' already exists")
	}

	producedAt := time.Now().UTC()
	if req.ProducedAt != nil {
		producedAt = *req.ProducedAt
	}

	batch := &model.Batch{
		BatchNo:    req.BatchNo,
		ProductID:  req.ProductID,
		YieldQty:   req.YieldQty,
		Uom:        req.Uom,
		ProducedAt: producedAt,
		ExpiryDate: req.ExpiryDate,
		QCStatus:   model.QCPending,
	}
	batch.CreatedBy = creatorID
	batch.UpdatedBy = creatorID

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.batchRepo.CreateTx(tx, batch); err != nil {
			return apperr.NewStore("batch create", err)
		}

		// 4. Stock the yield into the location
		now := time.Now().UTC()
		pool, err := s.inventoryRepo.FindPool(tx, req.ProductID, batch.ID, req.LocationID)
		switch {
		case err == nil:
			pool.Qty = pool.Qty.Add(req.YieldQty)
			pool.LastUpdated = now
			pool.UpdatedBy = creatorID
			if err := s.inventoryRepo.Save(tx, pool); err != nil {
				return apperr.NewStore("batch stock-in update", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			pool = &model.InventoryItem{
				ProductID:   req.ProductID,
				BatchID:     batch.ID,
				LocationID:  req.LocationID,
				Qty:         req.YieldQty,
				Uom:         req.Uom,
				LastUpdated: now,
				Metadata: model.JSONB{
					"stocked_from_batch": batch.BatchNo,
				},
			}
			pool.CreatedBy = creatorID
			pool.UpdatedBy = creatorID
			if err := s.inventoryRepo.Create(tx, pool); err != nil {
				return apperr.NewStore("batch stock-in create", err)
			}
		default:
			return apperr.NewStore("batch stock-in lookup", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch created",
		zap.String("batch_no", batch.BatchNo),
		zap.String("yield_qty", batch.YieldQty.String()),
	)

	return batch, nil
}

func (s *batchService) UpdateQCStatus(id uuid.UUID, status model.QCStatus, checkedBy string) (*model.Batch, error) {
	// 1. Validate status
	switch status {
	case model.QCPending, model.QCPassed, model.QCFailed:
	default:
		return nil, apperr.NewValidation("qc_status", "unknown QC status '"+string(status)+"'")
	}

	// 2. Check batch exists
	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("batch", id.String())
		}
		return nil, apperr.NewStore("batch lookup", err)
	}

	checkedAt := time.Now().UTC()

	// 3. Status write and audit row commit together
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.batchRepo.UpdateQCStatus(tx, id, status, checkedBy, checkedAt); err != nil {
			return apperr.NewStore("batch QC update", err)
		}
		audit := &model.AuditLog{
			ActionType: model.ActionBatchQCUpdate,
			EntityType: "batch",
			EntityID:   id.String(),
			ActorID:    checkedBy,
			Meta: model.JSONB{
				"batch_no": batch.BatchNo,
				"from":     string(batch.QCStatus),
				"to":       string(status),
			},
		}
		if err := s.auditRepo.Create(tx, audit); err != nil {
			return apperr.NewStore("batch QC audit", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch.QCStatus = status
	batch.QCCheckedBy = checkedBy
	batch.QCCheckedAt = &checkedAt
	return batch, nil
}

func (s *batchService) GetBatches() ([]model.Batch, error) {
	batches, err := s.batchRepo.FindAll()
	if err != nil {
		return nil, apperr.NewStore("batch list", err)
	}
	return batches, nil
}

func (s *batchService) GetBatch(id uuid.UUID) (*model.Batch, error) {
	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("batch", id.String())
		}
		return nil, apperr.NewStore("batch lookup", err)
	}
	return batch, nil
}
