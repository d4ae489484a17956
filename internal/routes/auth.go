package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/auth"
	"github.com/verdantlabs/verdant/internal/middleware"
)

// RegisterAuthRoutes wires signup, login, logout, refresh, and profile.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, requireUser fiber.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.Signup)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/logout", h.Logout)
	group.Post("/refresh-token", h.Refresh)
	group.Get("/profile", requireUser, func(c *fiber.Ctx) error {
		u, _ := middleware.UserFromCtx(c)
		return c.JSON(u)
	})
}
