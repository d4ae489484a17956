package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/auth"
	"github.com/verdantlabs/verdant/internal/user"
)

const userLocalKey = "auth_user"

// UserFromCtx returns the sanitized user the session middleware attached.
func UserFromCtx(c *fiber.Ctx) (user.Public, bool) {
	u, ok := c.Locals(userLocalKey).(user.Public)
	return u, ok
}

// RequireUser validates the access token cookie and attaches the identity to
// the request. It distinguishes missing, expired, and invalid tokens so
// clients can decide whether a refresh attempt is worthwhile. It never touches
// the session registry and never issues tokens.
func RequireUser(issuer *auth.Issuer, users *user.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.AccessCookie)
		if token == "" {
			return apperr.New(apperr.CodeTokenMissing, "no access token provided")
		}

		claims, err := issuer.VerifyAccess(token)
		if err != nil {
			return err
		}

		u, err := users.GetByID(c.UserContext(), claims.Subject)
		if err != nil {
			return err
		}

		c.Locals(userLocalKey, u.Sanitize())
		return c.Next()
	}
}

// RequireAdmin gates admin-only routes. It runs after RequireUser and checks
// the closed role enumeration exhaustively.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := UserFromCtx(c)
		if !ok {
			return apperr.New(apperr.CodeTokenMissing, "not authenticated")
		}
		switch u.Role {
		case user.RoleAdmin:
			return c.Next()
		case user.RoleCustomer:
			return apperr.New(apperr.CodeForbidden, "admin only")
		default:
			return apperr.New(apperr.CodeForbidden, "unknown role")
		}
	}
}
