package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/cart"
)

// RegisterCartRoutes wires the cart endpoints. All require an authenticated user.
func RegisterCartRoutes(r fiber.Router, h *cart.Handler, requireUser fiber.Handler) {
	group := r.Group("/cart", requireUser)
	group.Get("/", h.List)
	group.Post("/", h.Add)
	group.Delete("/", h.Remove)
	group.Put("/:id", h.SetQuantity)
}
