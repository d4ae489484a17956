package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when the gateway has no such checkout session.
var ErrSessionNotFound = errors.New("checkout session not found")

// SessionLine is one purchasable line submitted to the hosted checkout page.
type SessionLine struct {
	ProductID string
	Name      string
	Image     string
	UnitCents int64
	Quantity  int
}

// SessionRequest carries everything the hosted checkout needs, including the
// metadata echoed back at completion time.
type SessionRequest struct {
	UserID      string
	Lines       []SessionLine
	AmountCents int64
	CouponCode  string
	SuccessURL  string
	CancelURL   string
}

// Session is the gateway's view of a checkout in progress or completed.
type Session struct {
	ID      string
	Paid    bool
	Request SessionRequest
}

// Gateway connects to an external hosted-checkout provider. The provider owns
// the payment page; this API only creates sessions and reads their outcome.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	RetrieveSession(ctx context.Context, id string) (Session, error)
}

// StaticGateway simulates a provider that approves every checkout. Sessions
// live in process memory.
type StaticGateway struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewStaticGateway builds the simulator.
func NewStaticGateway() *StaticGateway {
	return &StaticGateway{sessions: make(map[string]Session)}
}

// CreateSession records the checkout and immediately marks it paid.
func (g *StaticGateway) CreateSession(_ context.Context, req SessionRequest) (Session, error) {
	s := Session{ID: "sess_" + uuid.NewString(), Paid: true, Request: req}
	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()
	return s, nil
}

// RetrieveSession returns a previously created session.
func (g *StaticGateway) RetrieveSession(_ context.Context, id string) (Session, error) {
	g.mu.RLock()
	s, ok := g.sessions[id]
	g.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}
