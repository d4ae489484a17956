package analytics

import (
	"context"
	"time"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/order"
	"github.com/verdantlabs/verdant/internal/product"
	"github.com/verdantlabs/verdant/internal/user"
)

// trailingDays is the window reported by the daily sales chart.
const trailingDays = 7

// Overview is the storefront-wide headline numbers.
type Overview struct {
	Users        int64 `json:"users"`
	Products     int64 `json:"products"`
	Sales        int64 `json:"total_sales"`
	RevenueCents int64 `json:"total_revenue_cents"`
}

// Service answers admin analytics queries.
type Service struct {
	users    *user.Service
	products *product.Service
	orders   order.Repository
}

// NewService wires the analytics service.
func NewService(users *user.Service, products *product.Service, orders order.Repository) *Service {
	return &Service{users: users, products: products, orders: orders}
}

// Overview aggregates user, catalog, and all-time sales counts.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return Overview{}, err
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return Overview{}, err
	}
	totals, err := s.orders.Totals(ctx)
	if err != nil {
		return Overview{}, apperr.Wrap(apperr.CodeDependency, "sales totals", err)
	}
	return Overview{
		Users:        userCount,
		Products:     productCount,
		Sales:        totals.Sales,
		RevenueCents: totals.RevenueCents,
	}, nil
}

// DailySales returns one entry per day for the trailing week, oldest first.
// Days without orders appear with zero sales so charts stay continuous.
func (s *Service) DailySales(ctx context.Context, now time.Time) ([]order.DailyStat, error) {
	now = now.UTC()
	to := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -trailingDays)

	stats, err := s.orders.DailySales(ctx, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "daily sales", err)
	}

	byDay := make(map[string]order.DailyStat, len(stats))
	for _, stat := range stats {
		byDay[stat.Date] = stat
	}

	out := make([]order.DailyStat, 0, trailingDays)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if stat, ok := byDay[key]; ok {
			out = append(out, stat)
			continue
		}
		out = append(out, order.DailyStat{Date: key})
	}
	return out, nil
}
