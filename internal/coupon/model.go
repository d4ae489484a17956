package coupon

import "time"

// Coupon is a per-user percentage discount with an expiry. At most one active
// coupon per user.
type Coupon struct {
	Code            string    `json:"code"`
	UserID          string    `json:"-"`
	DiscountPercent int       `json:"discount_percent"`
	ExpiresAt       time.Time `json:"expires_at"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Expired reports whether the coupon's validity window has passed.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
