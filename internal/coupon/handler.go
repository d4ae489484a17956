package coupon

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/middleware"
)

// Handler exposes coupon endpoints. All routes require an authenticated user.
type Handler struct {
	svc *Service
}

// NewHandler constructs a coupon HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Active returns the user's active coupon, or null.
func (h *Handler) Active(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	coupon, err := h.svc.Active(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(coupon)
}

type validateRequest struct {
	Code string `json:"code"`
}

// Validate checks a coupon code for the user.
func (h *Handler) Validate(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "not authenticated")
	}
	var req validateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	coupon, err := h.svc.Validate(c.UserContext(), u.ID, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":          "Coupon is valid",
		"code":             coupon.Code,
		"discount_percent": coupon.DiscountPercent,
	})
}
