package product

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
}

// NewMemoryRepository builds an in-memory catalog for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{products: make(map[string]Product)}
}

func (r *memoryRepository) Create(_ context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) GetMany(_ context.Context, ids []string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]Product, error) {
	return r.list(func(Product) bool { return true }), nil
}

func (r *memoryRepository) ListFeatured(_ context.Context) ([]Product, error) {
	return r.list(func(p Product) bool { return p.Featured }), nil
}

func (r *memoryRepository) ListByCategory(_ context.Context, category string) ([]Product, error) {
	return r.list(func(p Product) bool { return p.Category == category }), nil
}

func (r *memoryRepository) Random(_ context.Context, n int) ([]Product, error) {
	all := r.list(func(Product) bool { return true })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *memoryRepository) SetFeatured(_ context.Context, id string, featured bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Featured = featured
	r.products[id] = p
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func (r *memoryRepository) list(keep func(Product) bool) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Product
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
