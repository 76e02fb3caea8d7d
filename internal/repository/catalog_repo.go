package repository

import (
	"go-dairy-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("sku ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

type LocationRepository interface {
	FindAll() ([]model.Location, error)
	FindByID(id uuid.UUID) (*model.Location, error)
	FindByCode(code string) (*model.Location, error)
	Create(location *model.Location) error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("code ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) FindByID(id uuid.UUID) (*model.Location, error) {
	var location model.Location
	err := r.db.First(&location, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) FindByCode(code string) (*model.Location, error) {
	var location model.Location
	err := r.db.First(&location, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

type ShopRepository interface {
	FindAll(activeOnly bool) ([]model.Shop, error)
	FindByID(id uuid.UUID) (*model.Shop, error)
	Create(shop *model.Shop) error
	Update(shop *model.Shop) error
}

type shopRepo struct {
	db *gorm.DB
}

func NewShopRepo(db *gorm.DB) ShopRepository {
	return &shopRepo{db}
}

func (r *shopRepo) FindAll(activeOnly bool) ([]model.Shop, error) {
	var shops []model.Shop
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&shops).Error
	return shops, err
}

func (r *shopRepo) FindByID(id uuid.UUID) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.First(&shop, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) Create(shop *model.Shop) error {
	return r.db.Create(shop).Error
}

func (r *shopRepo) Update(shop *model.Shop) error {
	return r.db.Save(shop).Error
}
