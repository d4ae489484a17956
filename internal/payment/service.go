package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/cart"
	"github.com/verdantlabs/verdant/internal/coupon"
	"github.com/verdantlabs/verdant/internal/notification"
	"github.com/verdantlabs/verdant/internal/order"
	"github.com/verdantlabs/verdant/internal/product"
)

// giftThresholdCents is the pre-discount total from which a gift coupon for
// the next purchase is granted ($200).
const giftThresholdCents = 20000

// Service drives the checkout flow against the hosted payment gateway.
type Service struct {
	gateway   Gateway
	products  *product.Service
	coupons   *coupon.Service
	carts     *cart.Service
	orders    order.Repository
	notifier  notification.Notifier
	clientURL string
}

// NewService wires the checkout service.
func NewService(gateway Gateway, products *product.Service, coupons *coupon.Service, carts *cart.Service, orders order.Repository, notifier notification.Notifier, clientURL string) *Service {
	return &Service{
		gateway:   gateway,
		products:  products,
		coupons:   coupons,
		carts:     carts,
		orders:    orders,
		notifier:  notifier,
		clientURL: clientURL,
	}
}

// CheckoutItem is a product/quantity pair submitted for checkout.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutSession is the response for a created session.
type CheckoutSession struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
}

// CreateSession prices the submitted items from the catalog, applies the
// user's coupon when the code matches, and opens a hosted checkout session.
// A pre-discount total at or above the gift threshold grants a coupon for the
// next purchase.
func (s *Service) CreateSession(ctx context.Context, userID string, items []CheckoutItem, couponCode string) (CheckoutSession, error) {
	if len(items) == 0 {
		return CheckoutSession{}, apperr.New(apperr.CodeValidation, "empty checkout")
	}

	lines := make([]SessionLine, 0, len(items))
	var total int64
	for _, item := range items {
		if item.Quantity <= 0 {
			return CheckoutSession{}, apperr.New(apperr.CodeValidation, "quantity must be positive")
		}
		p, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return CheckoutSession{}, err
		}
		lines = append(lines, SessionLine{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			UnitCents: p.PriceCents,
			Quantity:  item.Quantity,
		})
		total += p.PriceCents * int64(item.Quantity)
	}

	preDiscountTotal := total
	appliedCoupon := ""
	if couponCode != "" {
		c, err := s.coupons.Validate(ctx, userID, couponCode)
		switch {
		case err == nil:
			total -= total * int64(c.DiscountPercent) / 100
			appliedCoupon = c.Code
		case apperr.CodeOf(err) == apperr.CodeNotFound:
			// Unknown or expired code: checkout proceeds at full price.
		default:
			return CheckoutSession{}, err
		}
	}

	session, err := s.gateway.CreateSession(ctx, SessionRequest{
		UserID:      userID,
		Lines:       lines,
		AmountCents: total,
		CouponCode:  appliedCoupon,
		SuccessURL:  s.clientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.clientURL + "/purchase-cancel",
	})
	if err != nil {
		return CheckoutSession{}, apperr.Wrap(apperr.CodeDependency, "create checkout session", err)
	}

	if preDiscountTotal >= giftThresholdCents {
		if gift, err := s.coupons.IssueGift(ctx, userID); err == nil && s.notifier != nil {
			_ = s.notifier.Send(ctx, notification.Message{
				Kind:        notification.KindGiftCoupon,
				Destination: userID,
				Body:        fmt.Sprintf("Gift coupon %s for your next purchase", gift.Code),
			})
		}
	}

	return CheckoutSession{ID: session.ID, AmountCents: total}, nil
}

// CompleteCheckout verifies the session was paid, retires the used coupon,
// records the order, and empties the cart. Replaying a session ID returns the
// already-recorded order.
func (s *Service) CompleteCheckout(ctx context.Context, userID, sessionID string) (order.Order, error) {
	if sessionID == "" {
		return order.Order{}, apperr.New(apperr.CodeValidation, "session id is required")
	}

	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return order.Order{}, apperr.New(apperr.CodeNotFound, "checkout session not found")
		}
		return order.Order{}, apperr.Wrap(apperr.CodeDependency, "retrieve checkout session", err)
	}
	if session.Request.UserID != userID {
		return order.Order{}, apperr.New(apperr.CodeForbidden, "session belongs to another user")
	}
	if !session.Paid {
		return order.Order{}, apperr.New(apperr.CodeValidation, "checkout session not paid")
	}

	if existing, ok, err := s.orders.BySession(ctx, sessionID); err != nil {
		return order.Order{}, apperr.Wrap(apperr.CodeDependency, "lookup order", err)
	} else if ok {
		return existing, nil
	}

	if session.Request.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, userID, session.Request.CouponCode); err != nil {
			return order.Order{}, err
		}
	}

	o := order.Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		TotalCents: session.Request.AmountCents,
		SessionID:  sessionID,
		CreatedAt:  time.Now().UTC(),
	}
	for _, line := range session.Request.Lines {
		o.Lines = append(o.Lines, order.Line{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			PriceCents: line.UnitCents,
		})
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return order.Order{}, apperr.Wrap(apperr.CodeDependency, "record order", err)
	}

	// Order is already recorded; a stale cart is an annoyance, not a failure.
	_ = s.carts.Clear(ctx, userID)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOrderConfirmed,
			Destination: userID,
			Body:        fmt.Sprintf("Order %s confirmed, total %d cents", o.ID, o.TotalCents),
		})
	}

	return o, nil
}
