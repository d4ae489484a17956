package product

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/verdantlabs/verdant/internal/apperr"
)

// featuredCacheKey holds the serialized featured list. No TTL: the cache is
// rewritten whenever an admin toggles a featured flag.
const featuredCacheKey = "featured_products"

const recommendationCount = 4

// Service exposes catalog operations with a Redis cache in front of the
// featured-products list, the hottest public query.
type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
}

// NewService builds a product service. The cache may be nil; lookups then go
// straight to the repository.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, input CreateInput) (Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Product{}, apperr.New(apperr.CodeValidation, "product name is required")
	}
	if input.PriceCents <= 0 {
		return Product{}, apperr.New(apperr.CodeValidation, "price must be positive")
	}

	p := Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Image:       input.Image,
		Category:    input.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, apperr.Wrap(apperr.CodeDependency, "create product", err)
	}
	return p, nil
}

// Get fetches a single product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, apperr.New(apperr.CodeNotFound, "product not found")
		}
		return Product{}, apperr.Wrap(apperr.CodeDependency, "get product", err)
	}
	return p, nil
}

// GetMany fetches the products matching the given ids, skipping unknown ones.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]Product, error) {
	return s.repo.GetMany(ctx, ids)
}

// ListAll returns the full catalog (admin view).
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.ListAll(ctx)
}

// ListFeatured serves the featured list from Redis when possible, falling back
// to the repository and repopulating the cache.
func (s *Service) ListFeatured(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, featuredCacheKey).Result()
		if err == nil {
			var cached []Product
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("corrupt featured products cache entry, rebuilding")
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("featured products cache lookup failed", "error", err)
		}
	}

	featured, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, "list featured products", err)
	}

	s.refreshFeaturedCache(ctx, featured)
	return featured, nil
}

// ListByCategory returns products in a category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Recommendations returns a random product sample for the cart page.
func (s *Service) Recommendations(ctx context.Context) ([]Product, error) {
	return s.repo.Random(ctx, recommendationCount)
}

// ToggleFeatured flips the featured flag and refreshes the cache.
func (s *Service) ToggleFeatured(ctx context.Context, id string) (Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.SetFeatured(ctx, id, !p.Featured); err != nil {
		return Product{}, apperr.Wrap(apperr.CodeDependency, "toggle featured", err)
	}
	p.Featured = !p.Featured

	featured, err := s.repo.ListFeatured(ctx)
	if err == nil {
		s.refreshFeaturedCache(ctx, featured)
	}
	return p, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(apperr.CodeNotFound, "product not found")
		}
		return apperr.Wrap(apperr.CodeDependency, "delete product", err)
	}
	return nil
}

// Count returns the catalog size for the analytics overview.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) refreshFeaturedCache(ctx context.Context, featured []Product) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(featured)
	if err != nil {
		return
	}
	// Cache failures are logged rather than surfaced: the repository answer
	// already went out.
	if err := s.cache.Set(ctx, featuredCacheKey, payload, 0).Err(); err != nil {
		s.logger.Warn("refresh featured products cache", "error", err)
	}
}
