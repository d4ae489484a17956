package order

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

// NewMemoryRepository builds an in-memory order store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

func (r *memoryRepository) BySession(_ context.Context, sessionID string) (Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			return o, true, nil
		}
	}
	return Order{}, false, nil
}

func (r *memoryRepository) Totals(_ context.Context) (Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var t Totals
	for _, o := range r.orders {
		t.Sales++
		t.RevenueCents += o.TotalCents
	}
	return t, nil
}

func (r *memoryRepository) DailySales(_ context.Context, from, to time.Time) ([]DailyStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[string]*DailyStat)
	var days []string
	for _, o := range r.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		day := o.CreatedAt.UTC().Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &DailyStat{Date: day}
			byDay[day] = stat
			days = append(days, day)
		}
		stat.Sales++
		stat.RevenueCents += o.TotalCents
	}

	var out []DailyStat
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out, nil
}
