package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/menuflow-backend/api/routes"
	"github.com/angelmondragon/menuflow-backend/internal/auth"
	"github.com/angelmondragon/menuflow-backend/internal/availability"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/menu"
	"github.com/angelmondragon/menuflow-backend/internal/orders"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/env"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/metrics"
	"github.com/angelmondragon/menuflow-backend/pkg/migrate"
	"github.com/angelmondragon/menuflow-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	billingRepo := entitlements.NewRepository(dbClient.DB())

	if cfg.FeatureFlags.UseSQLite {
		if err := dbClient.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return err
		}
		if err := entitlements.SeedCatalog(ctx, billingRepo); err != nil {
			return err
		}
	} else if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	authParams := auth.ServiceParams{
		UserRepo:  users.NewRepository(dbClient.DB()),
		JWTConfig: cfg.JWT,
	}
	var (
		redisClient    *redis.Client
		sessionChecker session.AccessSessionChecker
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()

		manager, err := session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			return err
		}
		sessionChecker = manager
		authParams.SessionManager = manager
	} else {
		logg.Warn(ctx, "redis not configured; sessions, rate limits and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	resolver, err := entitlements.NewResolver(billingRepo)
	if err != nil {
		return err
	}
	scheduler := availability.NewScheduler(cfg.Ordering.DefaultTimezone)
	presenter, err := restaurants.NewPresenter(resolver, scheduler)
	if err != nil {
		return err
	}

	restaurantService, err := restaurants.NewService(restaurants.ServiceParams{
		TX:             dbClient,
		Repo:           restaurants.NewRepository(dbClient.DB()),
		Users:          users.NewRepository(dbClient.DB()),
		Billing:        billingRepo,
		Presenter:      presenter,
		Scheduler:      scheduler,
		PasswordConfig: cfg.Password,
		Ordering:       cfg.Ordering,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	menuRepo := menu.NewRepository(dbClient.DB())
	menuService, err := menu.NewService(dbClient, menuRepo, restaurantService, presenter, nil)
	if err != nil {
		return err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		TX:          dbClient,
		Repo:        orders.NewRepository(dbClient.DB()),
		Menu:        menuRepo,
		Restaurants: restaurantService,
		Checker:     resolver,
		Metrics:     metrics.NewCheckoutMetrics(registry),
		Logger:      logg,
	})
	if err != nil {
		return err
	}

	billingService, err := entitlements.NewService(billingRepo, resolver)
	if err != nil {
		return err
	}

	authParams.Provisioner = restaurantService
	authService, err := auth.NewService(authParams)
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"sqlite": cfg.FeatureFlags.UseSQLite,
		"redis":  redisClient != nil,
	})

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:             dbClient,
		Redis:          redisClient,
		Sessions:       sessionChecker,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Auth:           authService,
		Restaurants:    restaurantService,
		Menu:           menuService,
		Orders:         orderService,
		Billing:        billingService,
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
