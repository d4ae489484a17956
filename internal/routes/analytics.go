package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/analytics"
)

// RegisterAnalyticsRoutes wires the admin dashboard endpoint.
func RegisterAnalyticsRoutes(r fiber.Router, h *analytics.Handler, requireUser, requireAdmin fiber.Handler) {
	r.Get("/analytics", requireUser, requireAdmin, h.Dashboard)
}
