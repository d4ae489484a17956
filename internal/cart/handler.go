package cart

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/middleware"
)

// Handler exposes cart endpoints. All routes require an authenticated user.
type Handler struct {
	svc *Service
}

// NewHandler constructs a cart HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type productRequest struct {
	ProductID string `json:"product_id"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// List returns the cart with product data joined in.
func (h *Handler) List(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	items, err := h.svc.Items(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Add places one unit of a product in the cart.
func (h *Handler) Add(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	lines, err := h.svc.Add(c.UserContext(), u.ID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(lines)
}

// Remove deletes a product's line, or clears the cart when no product is named.
func (h *Handler) Remove(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	var req productRequest
	_ = c.BodyParser(&req)
	lines, err := h.svc.Remove(c.UserContext(), u.ID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(lines)
}

// SetQuantity updates the quantity of a cart line.
func (h *Handler) SetQuantity(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	lines, err := h.svc.SetQuantity(c.UserContext(), u.ID, c.Params("id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(lines)
}
