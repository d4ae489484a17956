package analytics

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes admin analytics endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs an analytics HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard returns the overview plus the trailing week of daily sales.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	overview, err := h.svc.Overview(c.UserContext())
	if err != nil {
		return err
	}
	daily, err := h.svc.DailySales(c.UserContext(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"analytics_data":   overview,
		"daily_sales_data": daily,
	})
}
