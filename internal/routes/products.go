package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/product"
)

// RegisterProductRoutes wires the catalog endpoints. Listing the full catalog
// and mutating it are admin operations; the rest is public.
func RegisterProductRoutes(r fiber.Router, h *product.Handler, requireUser, requireAdmin fiber.Handler) {
	group := r.Group("/products")
	group.Get("/", requireUser, requireAdmin, h.ListAll)
	group.Get("/featured", h.ListFeatured)
	group.Get("/category/:category", h.ListByCategory)
	group.Get("/recommendations", h.Recommendations)
	group.Post("/", requireUser, requireAdmin, h.Create)
	group.Patch("/:id", requireUser, requireAdmin, h.ToggleFeatured)
	group.Delete("/:id", requireUser, requireAdmin, h.Delete)
}
