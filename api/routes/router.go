package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/menuflow-backend/api/controllers"
	"github.com/angelmondragon/menuflow-backend/api/middleware"
	"github.com/angelmondragon/menuflow-backend/internal/auth"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/menu"
	"github.com/angelmondragon/menuflow-backend/internal/orders"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/metrics"
	"github.com/angelmondragon/menuflow-backend/pkg/redis"
)

const publicCacheControl = "public, max-age=60"

// Dependencies carries everything the route table wires. Redis, Sessions,
// HTTPMetrics and MetricsHandler are optional.
type Dependencies struct {
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	Clock          controllers.Clock

	Auth        auth.Service
	Restaurants restaurants.Service
	Menu        menu.Service
	Orders      orders.Service
	Billing     entitlements.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// Interface values stay nil when Redis is off so the middleware disables itself.
	var (
		limiter     middleware.RateLimitStore
		idempotency redis.IdempotencyStore
	)
	ready := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		limiter = deps.Redis
		idempotency = deps.Redis
		ready["redis"] = deps.Redis
	}

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	publicOrderPolicy := middleware.NewRateLimitPolicy(
		"public_orders",
		cfg.RateLimit.PublicOrderWindow,
		cfg.RateLimit.PublicOrderIPLimit,
		0,
	)
	checkoutIdempotency := middleware.IdempotencyPolicy{TTL: cfg.Ordering.IdempotencyTTL}

	authenticate := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	anyStaff := middleware.RequireRole(logg, enums.UserRoleSuperadmin, enums.UserRoleOwner, enums.UserRoleStaff)
	managers := middleware.RequireRole(logg, enums.UserRoleSuperadmin, enums.UserRoleOwner)
	superadmin := middleware.RequireRole(logg, enums.UserRoleSuperadmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(
			middleware.RateLimit(registerPolicy, limiter, logg),
			middleware.Idempotency(idempotency, middleware.IdempotencyPolicy{}, logg),
		).Post("/register-owner", controllers.AuthRegisterOwner(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		r.With(authenticate).Get("/me", controllers.AuthMe(deps.Auth, logg))
	})

	r.Route("/api/public/restaurants/{slug}", func(r chi.Router) {
		r.With(middleware.CacheControl(publicCacheControl)).Get("/", controllers.PublicRestaurant(deps.Restaurants, logg))
		r.With(middleware.CacheControl(publicCacheControl)).Get("/menu", controllers.PublicMenu(deps.Menu, logg))
		r.With(
			middleware.RateLimit(publicOrderPolicy, limiter, logg),
			middleware.Idempotency(idempotency, checkoutIdempotency, logg),
		).Post("/orders", controllers.PublicCreateOrder(deps.Orders, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticate)

		r.Group(func(r chi.Router) {
			r.Use(anyStaff)

			r.Get("/categories", controllers.AdminListCategories(deps.Menu, logg))
			r.Post("/categories", controllers.AdminCreateCategory(deps.Menu, logg))
			r.Patch("/categories/{categoryId}", controllers.AdminUpdateCategory(deps.Menu, logg))
			r.Delete("/categories/{categoryId}", controllers.AdminDeleteCategory(deps.Menu, logg))

			r.Get("/items", controllers.AdminListItems(deps.Menu, logg))
			r.Post("/items", controllers.AdminCreateItem(deps.Menu, logg))
			r.Patch("/items/{itemId}", controllers.AdminUpdateItem(deps.Menu, logg))
			r.Delete("/items/{itemId}", controllers.AdminDeleteItem(deps.Menu, logg))

			r.Get("/tables", controllers.AdminListTables(deps.Menu, logg))

			r.Get("/orders", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))

			r.Get("/settings", controllers.AdminGetSettings(deps.Restaurants, logg))
			r.Get("/billing/features", controllers.AdminBillingFeatures(deps.Billing, deps.Clock, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(managers)

			r.Patch("/settings", controllers.AdminUpdateSettings(deps.Restaurants, logg))
			r.Post("/tables", controllers.AdminCreateTable(deps.Menu, logg))
			r.Delete("/tables/{tableId}", controllers.AdminDeleteTable(deps.Menu, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(superadmin)

			r.With(middleware.Idempotency(idempotency, middleware.IdempotencyPolicy{}, logg)).
				Post("/restaurants/create-with-owner", controllers.SuperadminCreateRestaurant(deps.Restaurants, logg))
			r.Get("/restaurants", controllers.SuperadminListRestaurants(deps.Restaurants, logg))
			r.Patch("/restaurants/{restaurantId}", controllers.SuperadminUpdateRestaurant(deps.Restaurants, logg))
			r.Get("/restaurants/{restaurantId}/owners", controllers.SuperadminListOwners(deps.Restaurants, logg))
			r.Post("/owners/{ownerId}/reset-password", controllers.SuperadminResetOwnerPassword(deps.Restaurants, logg))
			r.Get("/restaurants/{restaurantId}/subscriptions", controllers.SuperadminListSubscriptions(deps.Billing, logg))
			r.Post("/restaurants/{restaurantId}/subscriptions", controllers.SuperadminCreateSubscription(deps.Billing, deps.Clock, logg))
			r.Get("/restaurants/{restaurantId}/features/overrides", controllers.SuperadminListOverrides(deps.Billing, logg))
			r.Post("/restaurants/{restaurantId}/features/{featureKey}/override", controllers.SuperadminSetOverride(deps.Billing, logg))
			r.Delete("/restaurants/{restaurantId}/features/{featureKey}/override", controllers.SuperadminClearOverride(deps.Billing, logg))
			r.Get("/plans", controllers.SuperadminListPlans(deps.Billing, logg))
		})
	})

	return r
}
