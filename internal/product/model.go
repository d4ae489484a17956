package product

import "time"

// Product is a catalog entry. Prices are stored in cents.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput captures data required to add a catalog entry.
type CreateInput struct {
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Category    string
}
