package cart

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

// NewMemoryRepository builds an in-memory cart store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{carts: make(map[string][]Line)}
}

func (r *memoryRepository) List(_ context.Context, userID string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lines := r.carts[userID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *memoryRepository) Increment(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.carts[userID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity++
			return nil
		}
	}
	r.carts[userID] = append(lines, Line{ProductID: productID, Quantity: 1})
	return nil
}

func (r *memoryRepository) SetQuantity(_ context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.carts[userID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *memoryRepository) Remove(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.carts[userID]
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	r.carts[userID] = out
	return nil
}

func (r *memoryRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
