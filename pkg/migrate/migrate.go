package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/pressly/goose/v3"
)

const (
	// SourceDir is where new migrations are written; binaries read the embedded copy.
	SourceDir = "pkg/migrate/migrations"
	dialect   = "postgres"
)

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its dialect and base filesystem in package globals.
var gooseMu sync.Mutex

// Source selects where goose reads migrations from. An empty Dir means the
// copy compiled into the binary.
type Source struct {
	Dir string
}

func (s Source) open() (fs.FS, string) {
	if s.Dir == "" {
		return embedded, "migrations"
	}
	return os.DirFS(s.Dir), "."
}

// Embedded exposes the compiled-in migrations, mainly for validation.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

func withGoose(src Source, fn func(dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	fsys, dir := src.open()
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn(dir)
}

// Run executes a goose command ("up", "down", "status", "redo", ...).
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return errors.New("db is required")
	}
	return withGoose(src, func(dir string) error {
		if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion moves the schema up or down until it sits at target.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, target int64) error {
	if db == nil {
		return errors.New("db is required")
	}
	if target < 0 {
		return fmt.Errorf("invalid target version %d", target)
	}
	return withGoose(src, func(dir string) error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current < target:
			err = goose.UpToContext(ctx, db, dir, target)
		case current > target:
			err = goose.DownToContext(ctx, db, dir, target)
		}
		if err != nil {
			return fmt.Errorf("migrate from %d to %d: %w", current, target, err)
		}
		return nil
	})
}
