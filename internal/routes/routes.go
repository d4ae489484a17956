package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/verdantlabs/verdant/internal/analytics"
	"github.com/verdantlabs/verdant/internal/auth"
	"github.com/verdantlabs/verdant/internal/cart"
	"github.com/verdantlabs/verdant/internal/config"
	"github.com/verdantlabs/verdant/internal/coupon"
	"github.com/verdantlabs/verdant/internal/middleware"
	"github.com/verdantlabs/verdant/internal/notification"
	"github.com/verdantlabs/verdant/internal/order"
	"github.com/verdantlabs/verdant/internal/payment"
	"github.com/verdantlabs/verdant/internal/product"
	"github.com/verdantlabs/verdant/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// A nil DB selects the in-memory repositories, used by the wiring tests.
	// Production refuses to start degraded either way.
	if d.Cfg.Production() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Cache == nil {
		return fmt.Errorf("redis is required for sessions and caching")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Repositories fall back to memory when no database is configured.
	var (
		userRepo    user.Repository
		productRepo product.Repository
		cartRepo    cart.Repository
		couponRepo  coupon.Repository
		orderRepo   order.Repository
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		productRepo = product.NewPostgresRepository(d.DB)
		cartRepo = cart.NewPostgresRepository(d.DB)
		couponRepo = coupon.NewPostgresRepository(d.DB)
		orderRepo = order.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		productRepo = product.NewMemoryRepository()
		cartRepo = cart.NewMemoryRepository()
		couponRepo = coupon.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
	}

	users := user.NewService(userRepo)
	products := product.NewService(productRepo, d.Cache, d.Logger)
	carts := cart.NewService(cartRepo, products)
	coupons := coupon.NewService(couponRepo)
	notifier := notification.NewLoggerNotifier(d.Logger)
	payments := payment.NewService(payment.NewStaticGateway(), products, coupons, carts, orderRepo, notifier, d.Cfg.ClientURL)
	stats := analytics.NewService(users, products, orderRepo)

	issuer := auth.NewIssuer(d.Cfg)
	sessions := auth.NewRedisSessionRegistry(d.Cache)
	authSvc := auth.NewService(users, issuer, sessions)
	cookies := auth.NewCookieWriter(d.Cfg.Production(), issuer.AccessTTL(), issuer.RefreshTTL())

	authHandler := auth.NewHandler(authSvc, cookies)
	productHandler := product.NewHandler(products)
	cartHandler := cart.NewHandler(carts)
	couponHandler := coupon.NewHandler(coupons)
	paymentHandler := payment.NewHandler(payments)
	analyticsHandler := analytics.NewHandler(stats)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	requireUser := middleware.RequireUser(issuer, users)
	requireAdmin := middleware.RequireAdmin()
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	idempotency := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)

	RegisterAuthRoutes(api, authHandler, requireUser, rateLimiter)
	RegisterProductRoutes(api, productHandler, requireUser, requireAdmin)
	RegisterCartRoutes(api, cartHandler, requireUser)
	RegisterCouponRoutes(api, couponHandler, requireUser)
	RegisterPaymentRoutes(api, paymentHandler, requireUser, idempotency)
	RegisterAnalyticsRoutes(api, analyticsHandler, requireUser, requireAdmin)

	return nil
}
