package repository

import (
	"time"

	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CollectionTotal is one day's intake volume for the dashboard trend chart
type CollectionTotal struct {
	Date   string          `json:"date"`
	Liters decimal.Decimal `json:"liters"`
}

type CollectionRepository interface {
	FindAll(supplierID *uuid.UUID, startDate, endDate time.Time) ([]model.MilkCollection, error)
	CreateTx(tx *gorm.DB, collection *model.MilkCollection) error
	DailyTotals(startDate, endDate time.Time) ([]CollectionTotal, error)
	TotalSince(since time.Time) (decimal.Decimal, error)
}

type collectionRepo struct {
	db *gorm.DB
}

func NewCollectionRepo(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db}
}

func (r *collectionRepo) FindAll(supplierID *uuid.UUID, startDate, endDate time.Time) ([]model.MilkCollection, error) {
	var collections []model.MilkCollection
	query := r.db.Preload("Supplier").
		Where("collected_at BETWEEN ? AND ?", startDate, endDate).
		Order("collected_at DESC")
	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	err := query.Find(&collections).Error
	return collections, err
}

func (r *collectionRepo) CreateTx(tx *gorm.DB, collection *model.MilkCollection) error {
	return tx.Create(collection).Error
}

// DailyTotals aggregates intake per day for chart data
func (r *collectionRepo) DailyTotals(startDate, endDate time.Time) ([]CollectionTotal, error) {
	var results []CollectionTotal

	rows, err := r.db.Model(&model.MilkCollection{}).
		Select("DATE(collected_at) as date, COALESCE(SUM(qty_liters), 0) as liters").
		Where("collected_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(collected_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data CollectionTotal
		if err := rows.Scan(&data.Date, &data.Liters); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *collectionRepo) TotalSince(since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.MilkCollection{}).
		Where("collected_at >= ?", since).
		Select("COALESCE(SUM(qty_liters), 0)").
		Scan(&total).Error
	return total, err
}
