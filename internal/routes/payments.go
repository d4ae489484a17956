package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/payment"
)

// RegisterPaymentRoutes wires the checkout endpoints. The idempotency
// middleware guards against double-submitted checkouts.
func RegisterPaymentRoutes(r fiber.Router, h *payment.Handler, requireUser, idempotency fiber.Handler) {
	group := r.Group("/payments", requireUser, idempotency)
	group.Post("/create-checkout-session", h.CreateSession)
	group.Post("/checkout-success", h.CheckoutSuccess)
}
