// Package client is a Go consumer of the Verdant API. It carries the auth
// cookies, transparently refreshes an expired access token, and collapses
// concurrent refreshes into a single request so the server sees at most one
// refresh in flight per process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/verdantlabs/verdant/internal/apperr"
)

// ErrSessionExpired is returned once the refresh token itself is rejected.
// The client stays in this state until the next successful Login.
var ErrSessionExpired = errors.New("session expired, log in again")

// Client talks to the Verdant API with cookie-based auth.
type Client struct {
	base string
	http *http.Client

	mu       sync.Mutex
	inflight *refreshAttempt
	expired  bool
}

// refreshAttempt is a single refresh in flight. Waiters block on done and
// then read err; err is written before done is closed.
type refreshAttempt struct {
	done chan struct{}
	err  error
}

// New builds a client for the API at baseURL (no trailing slash).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: baseURL,
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// Login authenticates and stores the session cookies. A success clears any
// prior expired state.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	c.mu.Lock()
	c.expired = false
	c.mu.Unlock()
	return nil
}

// Logout revokes the session server-side and drops the expired state.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postJSON(ctx, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	c.mu.Lock()
	c.expired = false
	c.mu.Unlock()
	return nil
}

// Do sends the request, refreshing the access token and retrying once when
// the server reports it expired. Requests with a body must have GetBody set;
// http.NewRequest does this for the common body types.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if !tokenExpired(raw) {
		// Some other 401; hand it back with the body intact.
		resp.Body = io.NopCloser(bytes.NewReader(raw))
		return resp, nil
	}

	if err := c.refresh(req.Context()); err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		retry.Body = body
	}
	return c.http.Do(retry)
}

// Get issues a GET through Do.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post issues a JSON POST through Do.
func (c *Client) Post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// refresh obtains a new access token. Callers arriving while a refresh is in
// flight wait for that attempt instead of starting their own.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return ErrSessionExpired
	}
	if attempt := c.inflight; attempt != nil {
		c.mu.Unlock()
		return c.wait(ctx, attempt)
	}
	attempt := &refreshAttempt{done: make(chan struct{})}
	c.inflight = attempt
	c.mu.Unlock()

	err := c.doRefresh(ctx)

	c.mu.Lock()
	c.inflight = nil
	if err != nil {
		c.expired = true
	}
	c.mu.Unlock()

	attempt.err = err
	close(attempt.done)
	return err
}

func (c *Client) wait(ctx context.Context, attempt *refreshAttempt) error {
	select {
	case <-attempt.done:
		return attempt.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) doRefresh(ctx context.Context) error {
	resp, err := c.postJSON(ctx, "/api/auth/refresh-token", nil)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ErrSessionExpired
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// tokenExpired reports whether a 401 body carries the server's expired-access
// signal, as opposed to any other rejection.
func tokenExpired(raw []byte) bool {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return payload.Code == string(apperr.CodeTokenExpired)
}

func apiError(resp *http.Response) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("api: %s (%s)", payload.Message, payload.Code)
	}
	return fmt.Errorf("api: unexpected status %d", resp.StatusCode)
}
