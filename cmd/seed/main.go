package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/angelmondragon/menuflow-backend/pkg/env"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/security"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	skipAdmin := flag.Bool("catalog-only", false, "seed features and plans without the superadmin user")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	err = entitlements.SeedCatalog(ctx, entitlements.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "catalog", err)
	logg.Info(ctx, "feature catalog seeded")

	if *skipAdmin {
		return
	}

	email := users.NormalizeEmail(env.Get("SUPERADMIN_EMAIL", ""))
	password := env.Get("SUPERADMIN_PASSWORD", "")
	if email == "" || password == "" {
		logg.Warn(ctx, "MENUFLOW_SUPERADMIN_EMAIL or MENUFLOW_SUPERADMIN_PASSWORD unset; skipping superadmin")
		return
	}
	ctx = logg.WithField(ctx, "email", email)

	repo := users.NewRepository(dbClient.DB())
	existing, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != enums.UserRoleSuperadmin {
			logg.Warn(ctx, "email already belongs to a non-superadmin user; leaving it untouched")
			return
		}
		logg.Info(ctx, "superadmin already present")
		return
	case !db.IsNotFound(err):
		requireResource(ctx, logg, "superadmin lookup", err)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	requireResource(ctx, logg, "password hash", err)

	_, err = repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleSuperadmin,
	})
	requireResource(ctx, logg, "superadmin", err)
	logg.Info(ctx, "superadmin created")
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", name), "seed failed", err)
	os.Exit(1)
}
