package cart

import (
	"context"
	"testing"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/logging"
	"github.com/verdantlabs/verdant/internal/product"
)

const testUserID = "1c9f3d60-0000-4000-8000-000000000001"

func setupCart(t *testing.T) (*Service, *product.Service) {
	t.Helper()
	products := product.NewService(product.NewMemoryRepository(), nil, logging.Discard())
	return NewService(NewMemoryRepository(), products), products
}

func addProduct(t *testing.T, products *product.Service, name string, price int64) product.Product {
	t.Helper()
	p, err := products.Create(context.Background(), product.CreateInput{Name: name, PriceCents: price})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestAddIncrementsExistingLine(t *testing.T) {
	svc, products := setupCart(t)
	ctx := context.Background()
	p := addProduct(t, products, "Fern", 1999)

	if _, err := svc.Add(ctx, testUserID, p.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := svc.Add(ctx, testUserID, p.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected single line with quantity 2, got %+v", lines)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := setupCart(t)
	if _, err := svc.Add(context.Background(), testUserID, "4b1a2c3d-0000-4000-8000-000000000009"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestItemsJoinsProducts(t *testing.T) {
	svc, products := setupCart(t)
	ctx := context.Background()
	p := addProduct(t, products, "Fern", 1999)

	if _, err := svc.Add(ctx, testUserID, p.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := svc.Items(ctx, testUserID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	if items[0].Name != "Fern" || items[0].Quantity != 1 {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestSetQuantity(t *testing.T) {
	svc, products := setupCart(t)
	ctx := context.Background()
	p := addProduct(t, products, "Fern", 1999)

	if _, err := svc.Add(ctx, testUserID, p.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines, err := svc.SetQuantity(ctx, testUserID, p.ID, 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 got %d", lines[0].Quantity)
	}

	// Zero removes the line.
	lines, err = svc.SetQuantity(ctx, testUserID, p.ID, 0)
	if err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart got %+v", lines)
	}

	if _, err := svc.SetQuantity(ctx, testUserID, p.ID, 3); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not_found for absent line, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc, products := setupCart(t)
	ctx := context.Background()
	a := addProduct(t, products, "Fern", 1999)
	b := addProduct(t, products, "Cactus", 999)

	if _, err := svc.Add(ctx, testUserID, a.ID); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := svc.Add(ctx, testUserID, b.ID); err != nil {
		t.Fatalf("add b: %v", err)
	}

	lines, err := svc.Remove(ctx, testUserID, a.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != b.ID {
		t.Fatalf("expected only b left, got %+v", lines)
	}

	lines, err = svc.Remove(ctx, testUserID, "")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart got %+v", lines)
	}
}
