package payment

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/middleware"
)

// Handler exposes checkout endpoints. All routes require an authenticated user.
type Handler struct {
	svc *Service
}

// NewHandler constructs a payment HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createSessionRequest struct {
	Products   []CheckoutItem `json:"products"`
	CouponCode string         `json:"coupon_code"`
}

type checkoutSuccessRequest struct {
	SessionID string `json:"session_id"`
}

// CreateSession opens a hosted checkout session for the submitted items.
func (h *Handler) CreateSession(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "authentication required")
	}
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	session, err := h.svc.CreateSession(c.UserContext(), u.ID, req.Products, req.CouponCode)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// CheckoutSuccess finalizes a paid session into an order.
func (h *Handler) CheckoutSuccess(c *fiber.Ctx) error {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		return apperr.New(apperr.CodeTokenMissing, "authentication required")
	}
	var req checkoutSuccessRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.CompleteCheckout(c.UserContext(), u.ID, req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Payment successful, order created",
		"order":   o,
	})
}
