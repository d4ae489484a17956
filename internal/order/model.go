package order

import "time"

// Line is one purchased product within an order.
type Line struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// Order records a completed checkout.
type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Lines      []Line    `json:"lines"`
	TotalCents int64     `json:"total_cents"`
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Totals aggregates all-time sales for the analytics overview.
type Totals struct {
	Sales        int64
	RevenueCents int64
}

// DailyStat is one day's sales aggregate, dated YYYY-MM-DD.
type DailyStat struct {
	Date         string `json:"date"`
	Sales        int64  `json:"sales"`
	RevenueCents int64  `json:"revenue_cents"`
}
