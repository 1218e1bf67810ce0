package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/migrate"
)

const usage = `usage: migrate [flags] <command> [arg]

commands:
  up | down | redo | status   apply goose commands against MENUFLOW_DB_DSN
  version <YYYYMMDDHHMMSS>    move the schema up or down to a version
  create <name>               write a new migration into -dir
  validate                    check migration files without a database
`

var errUsage = errors.New("invalid arguments")

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := run(context.Background(), logg, *dir, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		logg.Error(context.Background(), "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, dir string, args []string) (err error) {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	command, rest := args[0], args[1:]
	ctx = logg.WithFields(ctx, map[string]any{"cmd": command, "dir": dir})

	// create and validate only touch files
	switch command {
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("%w: create needs a name", errUsage)
		}
		target := dir
		if target == "" {
			target = migrate.SourceDir
		}
		path, err := migrate.CreateSQLMigration(target, rest[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if dir == "" {
			_, err = migrate.Validate(migrate.Embedded())
		} else {
			err = migrate.ValidateDir(dir)
		}
		if err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}

	var target int64
	switch command {
	case "up", "down", "redo", "status":
	case "version":
		if len(rest) != 1 {
			return fmt.Errorf("%w: version needs a target", errUsage)
		}
		if target, err = strconv.ParseInt(rest[0], 10, 64); err != nil {
			return fmt.Errorf("%w: version %q is not YYYYMMDDHHMMSS", errUsage, rest[0])
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.FeatureFlags.UseSQLite {
		return errors.New("goose migrations target postgres; sqlite is bootstrapped by the api on startup")
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(context.Background(), map[string]any{"cmd": command, "dir": dir, "env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, false, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()
	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return err
	}

	src := migrate.Source{Dir: dir}
	if command == "version" {
		err = migrate.MigrateToVersion(ctx, sqlDB, src, target)
	} else {
		err = migrate.Run(ctx, sqlDB, src, command)
	}
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate finished")
	return nil
}
