package product

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes catalog endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs a product HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// ListAll returns the whole catalog (admin only).
func (h *Handler) ListAll(c *fiber.Ctx) error {
	products, err := h.svc.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": emptyIfNil(products)})
}

// ListFeatured returns featured products; public, served from cache.
func (h *Handler) ListFeatured(c *fiber.Ctx) error {
	products, err := h.svc.ListFeatured(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(emptyIfNil(products))
}

// ListByCategory returns products within a category; public.
func (h *Handler) ListByCategory(c *fiber.Ctx) error {
	products, err := h.svc.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": emptyIfNil(products)})
}

// Recommendations returns a random sample; public.
func (h *Handler) Recommendations(c *fiber.Ctx) error {
	products, err := h.svc.Recommendations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(emptyIfNil(products))
}

// Create adds a product (admin only).
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.UserContext(), CreateInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(p)
}

// ToggleFeatured flips the featured flag (admin only).
func (h *Handler) ToggleFeatured(c *fiber.Ctx) error {
	p, err := h.svc.ToggleFeatured(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Delete removes a product (admin only).
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func emptyIfNil(products []Product) []Product {
	if products == nil {
		return []Product{}
	}
	return products
}
