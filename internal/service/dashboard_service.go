package service

import (
	"time"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats is the operational snapshot for the admin overview
type DashboardStats struct {
	CollectionsToday  decimal.Decimal `json:"collections_today_liters"`
	StockValuation    decimal.Decimal `json:"stock_valuation"`
	PendingDeliveries int64           `json:"pending_deliveries"`
	UnclearedLedger   decimal.Decimal `json:"uncleared_ledger_total"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetCollectionTrend(days int) ([]repository.CollectionTotal, error)
}

type dashboardService struct {
	collectionRepo repository.CollectionRepository
	inventoryRepo  repository.InventoryRepository
	deliveryRepo   repository.DeliveryRepository
	ledgerRepo     repository.LedgerRepository
}

func NewDashboardService(collectionRepo repository.CollectionRepository, invRepo repository.InventoryRepository, deliveryRepo repository.DeliveryRepository, ledgerRepo repository.LedgerRepository) DashboardService {
	return &dashboardService{
		collectionRepo: collectionRepo,
		inventoryRepo:  invRepo,
		deliveryRepo:   deliveryRepo,
		ledgerRepo:     ledgerRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	collections, err := s.collectionRepo.TotalSince(startOfDay)
	if err != nil {
		return nil, apperr.NewStore("dashboard collections", err)
	}
	stats.CollectionsToday = collections

	valuation, err := s.inventoryRepo.StockValuation()
	if err != nil {
		return nil, apperr.NewStore("dashboard valuation", err)
	}
	stats.StockValuation = valuation

	pending, err := s.deliveryRepo.CountByStatus(model.DeliveryPending)
	if err != nil {
		return nil, apperr.NewStore("dashboard deliveries", err)
	}
	stats.PendingDeliveries = pending

	uncleared, err := s.ledgerRepo.UnclearedTotal()
	if err != nil {
		return nil, apperr.NewStore("dashboard ledger", err)
	}
	stats.UnclearedLedger = uncleared

	return stats, nil
}

func (s *dashboardService) GetCollectionTrend(days int) ([]repository.CollectionTotal, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	totals, err := s.collectionRepo.DailyTotals(startDate, endDate)
	if err != nil {
		return nil, apperr.NewStore("dashboard collection trend", err)
	}
	return totals, nil
}
