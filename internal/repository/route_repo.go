package repository

import (
	"time"

	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RouteRepository interface {
	FindAll(date *time.Time) ([]model.Route, error)
	FindByID(id uuid.UUID) (*model.Route, error)
	Create(route *model.Route) error
	Save(tx *gorm.DB, route *model.Route) error
}

type routeRepo struct {
	db *gorm.DB
}

func NewRouteRepo(db *gorm.DB) RouteRepository {
	return &routeRepo{db}
}

func (r *routeRepo) FindAll(date *time.Time) ([]model.Route, error) {
	var routes []model.Route
	query := r.db.Preload("Agent")
	if date != nil {
		query = query.Where("route_date = ?", date.Format("2006-01-02"))
	}
	err := query.Order("route_date DESC").Find(&routes).Error
	return routes, err
}

func (r *routeRepo) FindByID(id uuid.UUID) (*model.Route, error) {
	var route model.Route
	err := r.db.Preload("Agent").First(&route, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepo) Create(route *model.Route) error {
	return r.db.Create(route).Error
}

// Save persists the route inside the caller's transaction so the stop list
// and its materialized deliveries commit together
func (r *routeRepo) Save(tx *gorm.DB, route *model.Route) error {
	return tx.Save(route).Error
}
