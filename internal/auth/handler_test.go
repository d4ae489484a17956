package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantlabs/verdant/internal/apperr"
)

func setupHandlerApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := setupService(t)
	cookies := NewCookieWriter(false, 15*time.Minute, 7*24*time.Hour)
	h := NewHandler(svc, cookies)

	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Post("/auth/signup", h.Signup)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/logout", h.Logout)
	app.Post("/auth/refresh-token", h.Refresh)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignupLoginScenario(t *testing.T) {
	app := setupHandlerApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/signup", `{"name":"Ada","email":"a@b.com","password":"secret1"}`))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.StatusCode)
	}
	if !strings.Contains(readBody(t, resp), `"role":"customer"`) {
		t.Fatalf("expected customer role in signup response")
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`))
	if err != nil {
		t.Fatalf("bad login: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong password got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"secret1"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	access := cookieByName(resp, AccessCookie)
	refresh := cookieByName(resp, RefreshCookie)
	if access == nil || access.Value == "" {
		t.Fatalf("expected access token cookie")
	}
	if refresh == nil || refresh.Value == "" {
		t.Fatalf("expected refresh token cookie")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatalf("credential cookies must be http-only")
	}
}

func TestRefreshEndpoint(t *testing.T) {
	app := setupHandlerApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/signup", `{"name":"Ada","email":"a@b.com","password":"secret1"}`))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	refresh := cookieByName(resp, RefreshCookie)
	if refresh == nil {
		t.Fatalf("expected refresh cookie")
	}

	req := jsonRequest(http.MethodPost, "/auth/refresh-token", "")
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh.Value})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if c := cookieByName(resp, AccessCookie); c == nil || c.Value == "" {
		t.Fatalf("expected refreshed access cookie")
	}
	// The refresh token is not rotated.
	if c := cookieByName(resp, RefreshCookie); c != nil && c.Value != "" {
		t.Fatalf("refresh must not rotate the refresh token")
	}

	// Missing cookie fails with 401.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/refresh-token", ""))
	if err != nil {
		t.Fatalf("refresh without cookie: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := setupHandlerApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/signup", `{"name":"Ada","email":"a@b.com","password":"secret1"}`))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	refresh := cookieByName(resp, RefreshCookie)

	req := jsonRequest(http.MethodPost, "/auth/logout", "")
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh.Value})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if c := cookieByName(resp, AccessCookie); c == nil || c.Value != "" {
		t.Fatalf("expected cleared access cookie")
	}

	// Second logout finds no cookie and still succeeds.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/logout", ""))
	if err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected idempotent 200 got %d", resp.StatusCode)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return string(b)
}
