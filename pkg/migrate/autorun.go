package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on api boot when running in dev
// with MENUFLOW_AUTO_MIGRATE set. sqlite is bootstrapped by gorm instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate || cfg.FeatureFlags.UseSQLite {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "applying embedded migrations")
	if err := Run(ctx, sqlDB, Source{}, "up"); err != nil {
		return err
	}
	logg.Info(ctx, "migrations applied")
	return nil
}
