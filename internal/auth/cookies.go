package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// AccessCookie names the cookie carrying the short-lived access token.
	AccessCookie = "accessToken"
	// RefreshCookie names the cookie carrying the long-lived refresh token.
	RefreshCookie = "refreshToken"
)

// CookieWriter sets and clears the two credential cookies with the hardening
// flags the session design relies on: HTTPOnly against XSS, SameSite=Strict
// against CSRF, Secure outside development.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieWriter builds a cookie writer.
func NewCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) CookieWriter {
	return CookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// SetPair writes both credential cookies.
func (w CookieWriter) SetPair(c *fiber.Ctx, pair TokenPair) {
	w.SetAccess(c, pair.AccessToken)
	w.set(c, RefreshCookie, pair.RefreshToken, w.refreshTTL)
}

// SetAccess writes the access token cookie only, used by the refresh flow.
func (w CookieWriter) SetAccess(c *fiber.Ctx, token string) {
	w.set(c, AccessCookie, token, w.accessTTL)
}

// Clear expires both credential cookies.
func (w CookieWriter) Clear(c *fiber.Ctx) {
	w.set(c, AccessCookie, "", -time.Hour)
	w.set(c, RefreshCookie, "", -time.Hour)
}

func (w CookieWriter) set(c *fiber.Ctx, name, value string, ttl time.Duration) {
	cookie := fiber.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   w.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	}
	if ttl < 0 {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = -1
	}
	c.Cookie(&cookie)
}
