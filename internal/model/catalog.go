package model

import "github.com/shopspring/decimal"

// Product is a sellable dairy item (milk pouch, curd, ghee, paneer)
type Product struct {
	BaseModel
	SKU   string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name  string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Uom   string          `gorm:"type:varchar(20)" json:"uom"` // liter, kg, pcs
	Price decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
}

// Location type codes
const (
	LocationPlant     = "PLANT"
	LocationWarehouse = "WAREHOUSE"
	LocationVan       = "VAN"
)

// Location is a place stock can sit: the plant, a cold store, or a delivery van
type Location struct {
	BaseModel
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Type string `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=PLANT WAREHOUSE VAN"`
}

// Shop is a retail customer that deliveries are made to
type Shop struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address     string `gorm:"type:text" json:"address"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}
