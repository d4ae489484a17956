package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeAPI mimics the server's auth contract: expired access tokens get a 401
// with code token_expired, and the refresh endpoint restores access.
type fakeAPI struct {
	accessValid  atomic.Bool
	refreshOK    atomic.Bool
	refreshCalls atomic.Int32
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "access", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh", Path: "/", HttpOnly: true})
		f.accessValid.Store(true)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"ada@example.com"}`))
	})
	mux.HandleFunc("POST /api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if !f.refreshOK.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"token_invalid","message":"invalid refresh token"}`))
			return
		}
		f.accessValid.Store(true)
		_, _ = w.Write([]byte(`{"message":"Token refreshed successfully"}`))
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !f.accessValid.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"token_expired","message":"access token expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	})
	mux.HandleFunc("POST /api/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !f.accessValid.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"token_expired","message":"access token expired"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
	return mux
}

func setupClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	api.refreshOK.Store(true)
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.Login(context.Background(), "ada@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return c, api
}

func TestDoRefreshesExpiredAccess(t *testing.T) {
	c, api := setupClient(t)
	api.accessValid.Store(false)

	resp, err := c.Get(context.Background(), "/api/auth/profile")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after refresh, got %d", resp.StatusCode)
	}
	if got := api.refreshCalls.Load(); got != 1 {
		t.Fatalf("expected 1 refresh call, got %d", got)
	}
}

func TestConcurrentCallsShareOneRefresh(t *testing.T) {
	c, api := setupClient(t)
	api.accessValid.Store(false)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := c.Get(context.Background(), "/api/auth/profile")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs[i] = errors.New(resp.Status)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d failed: %v", i, err)
		}
	}
	if got := api.refreshCalls.Load(); got != 1 {
		t.Fatalf("expected a single shared refresh, got %d", got)
	}
}

func TestRetryResendsRequestBody(t *testing.T) {
	c, api := setupClient(t)
	api.accessValid.Store(false)

	resp, err := c.Post(context.Background(), "/api/cart", map[string]string{"product_id": "p1"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after refresh, got %d", resp.StatusCode)
	}
	var echoed map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echoed["product_id"] != "p1" {
		t.Fatalf("retry dropped the request body: %v", echoed)
	}
}

func TestFailedRefreshEntersExpiredState(t *testing.T) {
	c, api := setupClient(t)
	api.accessValid.Store(false)
	api.refreshOK.Store(false)

	if _, err := c.Get(context.Background(), "/api/auth/profile"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// The expired state fails fast; no second refresh hits the server.
	if _, err := c.Get(context.Background(), "/api/auth/profile"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired on second call, got %v", err)
	}
	if got := api.refreshCalls.Load(); got != 1 {
		t.Fatalf("expected no refresh retries after failure, got %d", got)
	}

	api.refreshOK.Store(true)
	if err := c.Login(context.Background(), "ada@example.com", "secret1"); err != nil {
		t.Fatalf("re-login: %v", err)
	}
	resp, err := c.Get(context.Background(), "/api/auth/profile")
	if err != nil {
		t.Fatalf("get after re-login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after re-login, got %d", resp.StatusCode)
	}
}
