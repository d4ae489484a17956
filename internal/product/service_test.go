package product

import (
	"context"
	"encoding/json"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/logging"
)

func setupCatalog(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewService(NewMemoryRepository(), cache, logging.Discard()), mr
}

func TestCreateValidation(t *testing.T) {
	svc, _ := setupCatalog(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "", PriceCents: 100}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Fern", PriceCents: 0}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}
}

func TestFeaturedCacheRoundTrip(t *testing.T) {
	svc, mr := setupCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Fern", PriceCents: 1999, Category: "plants"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// First read finds nothing featured yet and caches the empty list.
	featured, err := svc.ListFeatured(ctx)
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if len(featured) != 0 {
		t.Fatalf("expected no featured products, got %d", len(featured))
	}

	toggled, err := svc.ToggleFeatured(ctx, p.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Featured {
		t.Fatalf("expected featured flag set")
	}

	// Toggle refreshed the cache; the cached entry must hold the product.
	raw, err := mr.Get(featuredCacheKey)
	if err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
	var cached []Product
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("unmarshal cache: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != p.ID {
		t.Fatalf("unexpected cache contents: %+v", cached)
	}

	featured, err = svc.ListFeatured(ctx)
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if len(featured) != 1 || featured[0].ID != p.ID {
		t.Fatalf("expected cached featured product, got %+v", featured)
	}
}

func TestCorruptCacheFallsBack(t *testing.T) {
	svc, mr := setupCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Fern", PriceCents: 1999})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ToggleFeatured(ctx, p.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	mr.Set(featuredCacheKey, "{not json")

	featured, err := svc.ListFeatured(ctx)
	if err != nil {
		t.Fatalf("list featured with corrupt cache: %v", err)
	}
	if len(featured) != 1 {
		t.Fatalf("expected fallback to repository, got %d products", len(featured))
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc, _ := setupCatalog(t)
	if err := svc.Delete(context.Background(), "2d1b1e9c-0000-4000-8000-000000000000"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
