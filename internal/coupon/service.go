package coupon

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/verdantlabs/verdant/internal/apperr"
)

const (
	giftDiscountPercent = 10
	giftValidity        = 30 * 24 * time.Hour
	giftCodePrefix      = "GIFT"
)

// Service manages per-user discount coupons.
type Service struct {
	repo Repository
}

// NewService builds a coupon service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Active returns the user's active coupon, or nil when there is none.
func (s *Service) Active(ctx context.Context, userID string) (*Coupon, error) {
	c, err := s.repo.ActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeDependency, "lookup coupon", err)
	}
	return &c, nil
}

// Validate checks a submitted code for the user. Expired coupons are
// deactivated on sight and rejected.
func (s *Service) Validate(ctx context.Context, userID, code string) (Coupon, error) {
	c, err := s.repo.ByCodeAndUser(ctx, code, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Coupon{}, apperr.New(apperr.CodeNotFound, "coupon not found")
		}
		return Coupon{}, apperr.Wrap(apperr.CodeDependency, "lookup coupon", err)
	}

	if c.Expired(time.Now()) {
		if err := s.repo.Deactivate(ctx, c.Code, userID); err != nil && !errors.Is(err, ErrNotFound) {
			return Coupon{}, apperr.Wrap(apperr.CodeDependency, "deactivate coupon", err)
		}
		return Coupon{}, apperr.New(apperr.CodeNotFound, "coupon expired")
	}

	return c, nil
}

// Redeem deactivates a used coupon after successful checkout.
func (s *Service) Redeem(ctx context.Context, userID, code string) error {
	if err := s.repo.Deactivate(ctx, code, userID); err != nil && !errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.CodeDependency, "redeem coupon", err)
	}
	return nil
}

// IssueGift replaces the user's coupon with a fresh 10% gift coupon, granted
// for large checkouts.
func (s *Service) IssueGift(ctx context.Context, userID string) (Coupon, error) {
	now := time.Now().UTC()
	c := Coupon{
		Code:            giftCodePrefix + randomCode(6),
		UserID:          userID,
		DiscountPercent: giftDiscountPercent,
		ExpiresAt:       now.Add(giftValidity),
		Active:          true,
		CreatedAt:       now,
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return Coupon{}, apperr.Wrap(apperr.CodeDependency, "issue gift coupon", err)
	}
	return c, nil
}

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func randomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails on a broken platform; fall back to a fixed
		// marker rather than panicking inside a checkout.
		return strings.Repeat("X", n)
	}
	code := codeEncoding.EncodeToString(buf)
	if len(code) > n {
		code = code[:n]
	}
	return strings.ToUpper(code)
}
