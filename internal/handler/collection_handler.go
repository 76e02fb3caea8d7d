package handler

import (
	"time"

	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/internal/service"
	"go-dairy-ops/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CollectionHandler covers supplier CRUD and milk intake. Supplier CRUD is
// thin enough to ride directly on the repository.
type CollectionHandler struct {
	collectionService service.CollectionService
	supplierRepo      repository.SupplierRepository
}

func NewCollectionHandler(collectionService service.CollectionService, supplierRepo repository.SupplierRepository) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		supplierRepo:      supplierRepo,
	}
}

func (h *CollectionHandler) GetSuppliers(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"

	suppliers, err := h.supplierRepo.FindAll(activeOnly)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch suppliers"})
	}
	return c.JSON(suppliers)
}

func (h *CollectionHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&supplier); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed on field '" + errs[0].FailedField + "'",
		})
	}

	if existing, _ := h.supplierRepo.FindByCode(supplier.Code); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Supplier code already exists"})
	}

	supplier.IsActive = true
	supplier.CreatedBy = getUserID(c)
	supplier.UpdatedBy = getUserID(c)

	if err := h.supplierRepo.Create(&supplier); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create supplier"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *CollectionHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	existing, err := h.supplierRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Supplier not found"})
	}

	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Name = req.Name
	existing.PhoneNumber = req.PhoneNumber
	existing.Village = req.Village
	existing.IsActive = req.IsActive
	existing.UpdatedBy = getUserID(c)

	if err := h.supplierRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update supplier"})
	}

	return c.JSON(fiber.Map{"message": "Supplier updated", "data": existing})
}

// GetCollections lists milk intake records
// Query params: supplier_id, days (default 7)
func (h *CollectionHandler) GetCollections(c *fiber.Ctx) error {
	var supplierID *uuid.UUID
	if sid := c.Query("supplier_id"); sid != "" {
		parsed, err := parseUUID(sid)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
		}
		supplierID = &parsed
	}

	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	collections, err := h.collectionService.GetCollections(supplierID, startDate, endDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collections)
}

// RecordCollection books one milk intake
// POST /api/v1/collections
func (h *CollectionHandler) RecordCollection(c *fiber.Ctx) error {
	var req service.RecordCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	collection, err := h.collectionService.RecordCollection(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Collection recorded", "data": collection})
}
