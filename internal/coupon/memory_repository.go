package coupon

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	coupons map[string]Coupon // keyed by user ID
}

// NewMemoryRepository builds an in-memory coupon store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{coupons: make(map[string]Coupon)}
}

func (r *memoryRepository) ActiveByUser(_ context.Context, userID string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[userID]
	if !ok || !c.Active {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) ByCodeAndUser(_ context.Context, code, userID string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[userID]
	if !ok || !c.Active || c.Code != code {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) Deactivate(_ context.Context, code, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[userID]
	if !ok || c.Code != code {
		return ErrNotFound
	}
	c.Active = false
	r.coupons[userID] = c
	return nil
}

func (r *memoryRepository) Replace(_ context.Context, c Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.UserID] = c
	return nil
}
