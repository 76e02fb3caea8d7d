package handler

import (
	"time"

	"go-dairy-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RouteHandler struct {
	routeService    service.RouteService
	deliveryService service.DeliveryService
}

func NewRouteHandler(routeService service.RouteService, deliveryService service.DeliveryService) *RouteHandler {
	return &RouteHandler{
		routeService:    routeService,
		deliveryService: deliveryService,
	}
}

// GetRoutes lists routes, optionally for a single date
// Query params: date (YYYY-MM-DD)
func (h *RouteHandler) GetRoutes(c *fiber.Ctx) error {
	var date *time.Time
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
		}
		date = &parsed
	}

	routes, err := h.routeService.GetRoutes(date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(routes)
}

func (h *RouteHandler) GetRoute(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid route ID"})
	}

	route, err := h.routeService.GetRoute(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(route)
}

func (h *RouteHandler) CreateRoute(c *fiber.Ctx) error {
	var req service.CreateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	route, err := h.routeService.CreateRoute(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Route created", "data": route})
}

// UpdateRoute applies field updates; a stops list in the body triggers
// reconciliation of the route's pending deliveries
// PUT /api/v1/routes/:id
func (h *RouteHandler) UpdateRoute(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid route ID"})
	}

	var req service.UpdateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	route, err := h.routeService.UpdateRoute(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Route updated", "data": route})
}

func (h *RouteHandler) GetRouteDeliveries(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid route ID"})
	}

	deliveries, err := h.routeService.GetRouteDeliveries(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deliveries)
}

// UpdateDeliveryStatus moves one delivery through its lifecycle. The
// response carries items_parsed so the caller can tell a trusted
// confirmation from a best-effort one.
// PUT /api/v1/deliveries/:id/status
func (h *RouteHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var req service.UpdateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.deliveryService.UpdateStatus(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Delivery updated",
		"data":         result.Delivery,
		"items_parsed": result.ItemsParsed,
	})
}
