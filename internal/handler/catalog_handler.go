package handler

import (
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CatalogHandler serves the reference data the domain operations hang off:
// products, locations, and shops. Plain CRUD over the repositories.
type CatalogHandler struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	shopRepo     repository.ShopRepository
}

func NewCatalogHandler(productRepo repository.ProductRepository, locationRepo repository.LocationRepository, shopRepo repository.ShopRepository) *CatalogHandler {
	return &CatalogHandler{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		shopRepo:     shopRepo,
	}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&product); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed on field '" + errs[0].FailedField + "'",
		})
	}

	if existing, _ := h.productRepo.FindBySKU(product.SKU); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "SKU already exists"})
	}

	product.CreatedBy = getUserID(c)
	product.UpdatedBy = getUserID(c)

	if err := h.productRepo.Create(&product); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create product"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.locationRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch locations"})
	}
	return c.JSON(locations)
}

func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var location model.Location
	if err := c.BodyParser(&location); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&location); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed on field '" + errs[0].FailedField + "'",
		})
	}

	if existing, _ := h.locationRepo.FindByCode(location.Code); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Location code already exists"})
	}

	location.CreatedBy = getUserID(c)
	location.UpdatedBy = getUserID(c)

	if err := h.locationRepo.Create(&location); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create location"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Location created", "data": location})
}

func (h *CatalogHandler) GetShops(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"

	shops, err := h.shopRepo.FindAll(activeOnly)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shops"})
	}
	return c.JSON(shops)
}

func (h *CatalogHandler) CreateShop(c *fiber.Ctx) error {
	var shop model.Shop
	if err := c.BodyParser(&shop); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&shop); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed on field '" + errs[0].FailedField + "'",
		})
	}

	shop.IsActive = true
	shop.CreatedBy = getUserID(c)
	shop.UpdatedBy = getUserID(c)

	if err := h.shopRepo.Create(&shop); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create shop"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Shop created", "data": shop})
}
