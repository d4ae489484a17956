package coupon

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verdantlabs/verdant/internal/apperr"
)

const testUserID = "7a2b9c10-0000-4000-8000-000000000001"

func TestIssueGiftAndValidate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	gift, err := svc.IssueGift(ctx, testUserID)
	if err != nil {
		t.Fatalf("issue gift: %v", err)
	}
	if !strings.HasPrefix(gift.Code, giftCodePrefix) {
		t.Fatalf("expected GIFT prefix, got %s", gift.Code)
	}
	if gift.DiscountPercent != giftDiscountPercent {
		t.Fatalf("expected %d%% got %d%%", giftDiscountPercent, gift.DiscountPercent)
	}

	got, err := svc.Validate(ctx, testUserID, gift.Code)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Code != gift.Code {
		t.Fatalf("expected %s got %s", gift.Code, got.Code)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Validate(context.Background(), testUserID, "NOPE"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not_found got %v", err)
	}
}

func TestValidateExpiredCouponDeactivates(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	expired := Coupon{
		Code:            "GIFTOLD",
		UserID:          testUserID,
		DiscountPercent: 10,
		ExpiresAt:       time.Now().Add(-time.Hour),
		Active:          true,
		CreatedAt:       time.Now().Add(-31 * 24 * time.Hour),
	}
	if err := repo.Replace(ctx, expired); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Validate(ctx, testUserID, "GIFTOLD"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected rejection for expired coupon, got %v", err)
	}

	// The coupon was deactivated, not just rejected.
	active, err := svc.Active(ctx, testUserID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active coupon, got %+v", active)
	}
}

func TestRedeemDeactivates(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	gift, err := svc.IssueGift(ctx, testUserID)
	if err != nil {
		t.Fatalf("issue gift: %v", err)
	}
	if err := svc.Redeem(ctx, testUserID, gift.Code); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if _, err := svc.Validate(ctx, testUserID, gift.Code); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected redeemed coupon to be invalid, got %v", err)
	}

	// Redeeming twice is safe.
	if err := svc.Redeem(ctx, testUserID, gift.Code); err != nil {
		t.Fatalf("second redeem: %v", err)
	}
}

func TestIssueGiftReplacesPrior(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := svc.IssueGift(ctx, testUserID)
	if err != nil {
		t.Fatalf("first gift: %v", err)
	}
	second, err := svc.IssueGift(ctx, testUserID)
	if err != nil {
		t.Fatalf("second gift: %v", err)
	}

	if _, err := svc.Validate(ctx, testUserID, first.Code); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected first coupon replaced, got %v", err)
	}
	if _, err := svc.Validate(ctx, testUserID, second.Code); err != nil {
		t.Fatalf("second coupon should be valid: %v", err)
	}
}
