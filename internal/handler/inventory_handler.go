package handler

import (
	"go-dairy-ops/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetInventory lists stock pools, optionally filtered by location
// Query params: location_id
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	var locationID *uuid.UUID
	if loc := c.Query("location_id"); loc != "" {
		parsed, err := parseUUID(loc)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid location ID"})
		}
		locationID = &parsed
	}

	items, err := h.service.GetInventory(locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}

	item, err := h.service.GetItem(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// AdjustStock applies a signed quantity delta to one pool
// POST /api/v1/inventory/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.AdjustedBy == "" {
		req.AdjustedBy = getUserID(c)
	}

	item, err := h.service.AdjustStock(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": item})
}

// TransferStock moves stock between locations for the same product/batch
// POST /api/v1/inventory/transfer
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	var req service.TransferStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.TransferredBy == "" {
		req.TransferredBy = getUserID(c)
	}

	result, err := h.service.TransferStock(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
