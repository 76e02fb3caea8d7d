package handler

import (
	"go-dairy-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// GetEntries lists ledger entries
// Query params: account, cleared (true/false)
func (h *LedgerHandler) GetEntries(c *fiber.Ctx) error {
	account := c.Query("account")

	var cleared *bool
	switch c.Query("cleared") {
	case "true":
		v := true
		cleared = &v
	case "false":
		v := false
		cleared = &v
	}

	entries, err := h.service.GetEntries(account, cleared)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *LedgerHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ledger entry ID"})
	}

	entry, err := h.service.GetEntry(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// CreateEntry books a manual money movement
// POST /api/v1/ledger
func (h *LedgerHandler) CreateEntry(c *fiber.Ctx) error {
	var req service.CreateLedgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.service.CreateEntry(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Ledger entry created", "data": entry})
}

// RefundEntry posts a reversal against an existing entry
// POST /api/v1/ledger/:id/refund
func (h *LedgerHandler) RefundEntry(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ledger entry ID"})
	}

	var req service.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.CreatedBy == "" {
		req.CreatedBy = getUserID(c)
	}

	refund, err := h.service.RefundEntry(id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Refund created", "data": refund})
}
