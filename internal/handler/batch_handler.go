package handler

import (
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	service service.BatchService
}

func NewBatchHandler(s service.BatchService) *BatchHandler {
	return &BatchHandler{service: s}
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	batches, err := h.service.GetBatches()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batches)
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	batch, err := h.service.GetBatch(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batch)
}

// CreateBatch records a production run and stocks its yield
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req service.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	batch, err := h.service.CreateBatch(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Batch created", "data": batch})
}

type updateQCRequest struct {
	Status model.QCStatus `json:"status"`
}

// UpdateQCStatus moves a batch through QC
// PUT /api/v1/batches/:id/qc
func (h *BatchHandler) UpdateQCStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req updateQCRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	batch, err := h.service.UpdateQCStatus(id, req.Status, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "QC status updated", "data": batch})
}
