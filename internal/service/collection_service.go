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

type RecordCollectionRequest struct {
	SupplierID  uuid.UUID       `json:"supplier_id"`
	CollectedAt *time.Time      `json:"collected_at"`
	Shift       string          `json:"shift"`
	QtyLiters   decimal.Decimal `json:"qty_liters"`
	FatPct      decimal.Decimal `json:"fat_pct"`
	SnfPct      decimal.Decimal `json:"snf_pct"`
	Rate        decimal.Decimal `json:"rate"`
}

type CollectionService interface {
	RecordCollection(req *RecordCollectionRequest, creatorID string) (*model.MilkCollection, error)
	GetCollections(supplierID *uuid.UUID, startDate, endDate time.Time) ([]model.MilkCollection, error)
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
	supplierRepo   repository.SupplierRepository
	ledgerRepo     repository.LedgerRepository
	tx             repository.TxRunner
	logger         *zap.Logger
}

func NewCollectionService(collectionRepo repository.CollectionRepository, supplierRepo repository.SupplierRepository, ledgerRepo repository.LedgerRepository, tx repository.TxRunner, logger *zap.Logger) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		supplierRepo:   supplierRepo,
		ledgerRepo:     ledgerRepo,
		tx:             tx,
		logger:         logger,
	}
}

// RecordCollection books one milk intake and, when a rate is set, posts
// the supplier payable to the ledger in the same transaction.
func (s *collectionService) RecordCollection(req *RecordCollectionRequest, creatorID string) (*model.MilkCollection, error) {
	// 1. Validate input
	if req.SupplierID == uuid.Nil {
		return nil, apperr.NewValidation("supplier_id", "supplier is required")
	}
	if !req.QtyLiters.GreaterThan(decimal.Zero) {
		return nil, apperr.NewValidation("qty_liters", "quantity must be greater than zero")
	}
	if req.Rate.IsNegative() {
		return nil, apperr.NewValidation("rate", "rate cannot be negative")
	}

	// 2. Check supplier exists and is active
	supplier, err := s.supplierRepo.FindByID(req.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("supplier", req.SupplierID.String())
		}
		return nil, apperr.NewStore("supplier lookup", err)
	}
	if !supplier.IsActive {
		return nil, apperr.NewInvalidState("supplier '" + supplier.Code + "' is inactive")
	}

	collectedAt := time.Now().UTC()
	if req.CollectedAt != nil {
		collectedAt = *req.CollectedAt
	}

	collection := &model.MilkCollection{
		SupplierID:  req.SupplierID,
		CollectedAt: collectedAt,
		Shift:       req.Shift,
		QtyLiters:   req.QtyLiters,
		FatPct:      req.FatPct,
		SnfPct:      req.SnfPct,
		Rate:        req.Rate,
		Amount:      req.QtyLiters.Mul(req.Rate),
	}
	collection.CreatedBy = creatorID
	collection.UpdatedBy = creatorID

	// 3. Intake and payable commit together
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.collectionRepo.CreateTx(tx, collection); err != nil {
			return apperr.NewStore("collection create", err)
		}

		if collection.Amount.GreaterThan(decimal.Zero) {
			payable := &model.LedgerEntry{
				FromAccount: "DAIRY",
				ToAccount:   "SUPPLIER:" + supplier.Code,
				Amount:      collection.Amount,
				Mode:        model.ModeAdjusted,
				Cleared:     false,
				Reference:   "COLLECTION-" + collection.ID.String(),
			}
			payable.CreatedBy = creatorID
			payable.UpdatedBy = creatorID
			if err := s.ledgerRepo.CreateTx(tx, payable); err != nil {
				return apperr.NewStore("collection payable create", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("milk collection recorded",
		zap.String("supplier", supplier.Code),
		zap.String("liters", req.QtyLiters.String()),
		zap.String("amount", collection.Amount.String()),
	)

	return collection, nil
}

func (s *collectionService) GetCollections(supplierID *uuid.UUID, startDate, endDate time.Time) ([]model.MilkCollection, error) {
	collections, err := s.collectionRepo.FindAll(supplierID, startDate, endDate)
	if err != nil {
		return nil, apperr.NewStore("collection list", err)
	}
	return collections, nil
}
