package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/user"
)

// Handler exposes the auth endpoints: signup, login, logout, refresh, profile.
type Handler struct {
	svc     *Service
	cookies CookieWriter
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service, cookies CookieWriter) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account, starts a session, and sets both credential cookies.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	u, pair, err := h.svc.Signup(c.UserContext(), user.Credentials{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	h.cookies.SetPair(c, pair)
	return c.Status(http.StatusCreated).JSON(u.Sanitize())
}

// Login verifies credentials and sets both credential cookies.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	u, pair, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookies.SetPair(c, pair)
	return c.Status(http.StatusOK).JSON(u.Sanitize())
}

// Logout revokes the presented session and clears both cookies. Cookies are
// cleared even when revocation fails so the client is logged out locally.
func (h *Handler) Logout(c *fiber.Ctx) error {
	err := h.svc.Logout(c.UserContext(), c.Cookies(RefreshCookie))
	h.cookies.Clear(c)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

// Refresh exchanges a valid refresh token for a fresh access token cookie.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	access, err := h.svc.Refresh(c.UserContext(), c.Cookies(RefreshCookie))
	if err != nil {
		return err
	}
	h.cookies.SetAccess(c, access)
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Token refreshed successfully"})
}
