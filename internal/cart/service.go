package cart

import (
	"context"
	"errors"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/product"
)

// Service manages per-user carts.
type Service struct {
	repo     Repository
	products *product.Service
}

// NewService builds a cart service.
func NewService(repo Repository, products *product.Service) *Service {
	return &Service{repo: repo, products: products}
}

// Items returns the cart joined with product data. Lines whose product has
// been removed from the catalog are skipped.
func (s *Service) Items(ctx context.Context, userID string) ([]Item, error) {
	lines, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "list cart", err)
	}
	if len(lines) == 0 {
		return []Item{}, nil
	}

	ids := make([]string, 0, len(lines))
	quantities := make(map[string]int, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
		quantities[line.ProductID] = line.Quantity
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "load cart products", err)
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, Item{Product: p, Quantity: quantities[p.ID]})
	}
	return items, nil
}

// Add puts one unit of the product into the cart, incrementing an existing line.
func (s *Service) Add(ctx context.Context, userID, productID string) ([]Line, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.Increment(ctx, userID, productID); err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "add to cart", err)
	}
	return s.lines(ctx, userID)
}

// Remove deletes the product's line entirely; with an empty productID the whole
// cart is cleared.
func (s *Service) Remove(ctx context.Context, userID, productID string) ([]Line, error) {
	var err error
	if productID == "" {
		err = s.repo.Clear(ctx, userID)
	} else {
		err = s.repo.Remove(ctx, userID, productID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "remove from cart", err)
	}
	return s.lines(ctx, userID)
}

// SetQuantity updates a line's quantity; zero removes the line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]Line, error) {
	if quantity < 0 {
		return nil, apperr.New(apperr.CodeValidation, "quantity must not be negative")
	}

	var err error
	if quantity == 0 {
		err = s.repo.Remove(ctx, userID, productID)
	} else {
		err = s.repo.SetQuantity(ctx, userID, productID, quantity)
	}
	if err != nil {
		if errors.Is(err, ErrLineNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "product not in cart")
		}
		return nil, apperr.Wrap(apperr.CodeDependency, "update cart", err)
	}
	return s.lines(ctx, userID)
}

// Clear empties the cart, used after a completed checkout.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperr.Wrap(apperr.CodeDependency, "clear cart", err)
	}
	return nil
}

func (s *Service) lines(ctx context.Context, userID string) ([]Line, error) {
	lines, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "list cart", err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}
