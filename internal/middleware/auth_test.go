package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/auth"
	"github.com/verdantlabs/verdant/internal/config"
	"github.com/verdantlabs/verdant/internal/user"
)

func testConfig(accessTTL time.Duration) config.Config {
	return config.Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func setupAuthApp(t *testing.T, issuer *auth.Issuer, users *user.Service) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/protected", RequireUser(issuer, users), func(c *fiber.Ctx) error {
		u, _ := UserFromCtx(c)
		return c.JSON(u)
	})
	app.Get("/admin", RequireUser(issuer, users), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func registerUser(t *testing.T, users *user.Service) user.User {
	t.Helper()
	u, err := users.Register(context.Background(), user.Credentials{Name: "Ada", Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	resp.Body.Close()
	return body.Code
}

func TestRequireUserNoToken(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	issuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, issuer, users)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != string(apperr.CodeTokenMissing) {
		t.Fatalf("expected token_missing got %s", code)
	}
}

func TestRequireUserValidToken(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	issuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, issuer, users)
	u := registerUser(t, users)

	pair, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: pair.AccessToken})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var got user.Public
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("unexpected user payload: %+v", got)
	}
}

func TestRequireUserExpiredToken(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	// Negative TTL mints tokens that are already expired.
	expiredIssuer := auth.NewIssuer(testConfig(-time.Minute))
	liveIssuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, liveIssuer, users)
	u := registerUser(t, users)

	pair, err := expiredIssuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: pair.AccessToken})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != string(apperr.CodeTokenExpired) {
		t.Fatalf("expected token_expired got %s", code)
	}
}

func TestRequireUserGarbageToken(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	issuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, issuer, users)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: "not.a.jwt"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != string(apperr.CodeTokenInvalid) {
		t.Fatalf("expected token_invalid got %s", code)
	}
}

func TestRequireUserDeletedUser(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	issuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, issuer, users)

	// A token for a user that was never persisted.
	ghost := user.User{ID: "9f4a3a1e-0000-4000-8000-000000000000", Role: user.RoleCustomer}
	pair, err := issuer.Issue(ghost)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: pair.AccessToken})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != string(apperr.CodeUserNotFound) {
		t.Fatalf("expected user_not_found got %s", code)
	}
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	users := user.NewService(user.NewMemoryRepository())
	issuer := auth.NewIssuer(testConfig(15 * time.Minute))
	app := setupAuthApp(t, issuer, users)
	u := registerUser(t, users)

	pair, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: pair.AccessToken})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.StatusCode)
	}
}
