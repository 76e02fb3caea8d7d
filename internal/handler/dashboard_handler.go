package handler

import (
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	auditRepo        repository.AuditRepository
}

func NewDashboardHandler(dashboardService service.DashboardService, auditRepo repository.AuditRepository) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auditRepo: auditRepo}
}

// GetStats returns aggregate operational counters
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetCollectionTrend returns daily collection totals
// GET /api/v1/dashboard/collection-trend?days=7
func (h *DashboardHandler) GetCollectionTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 90"})
	}

	trend, err := h.dashboardService.GetCollectionTrend(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trend)
}

// GetAuditLogs returns recent audit entries, optionally filtered by action type
// GET /api/v1/audit-logs?action=inventory_transfer&limit=50
func (h *DashboardHandler) GetAuditLogs(c *fiber.Ctx) error {
	action := c.Query("action")
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		return c.Status(400).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}

	logs, err := h.auditRepo.FindRecent(action, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}
	return c.JSON(logs)
}
