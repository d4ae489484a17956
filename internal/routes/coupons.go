package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/coupon"
)

// RegisterCouponRoutes wires coupon lookup and validation.
func RegisterCouponRoutes(r fiber.Router, h *coupon.Handler, requireUser fiber.Handler) {
	group := r.Group("/coupons", requireUser)
	group.Get("/", h.Active)
	group.Post("/validate", h.Validate)
}
