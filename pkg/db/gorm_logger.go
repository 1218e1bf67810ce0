package db

import (
	"context"
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

// queryLogger sends gorm's output through the service logger. Only slow
// queries and unexpected failures are reported; not-found and unique
// violations are ordinary control flow for the repositories.
type queryLogger struct {
	logg *logger.Logger
	slow time.Duration
	mode gormlogger.LogLevel
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) *queryLogger {
	return &queryLogger{logg: logg, slow: slow, mode: gormlogger.Warn}
}

func (l *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.mode = level
	return &next
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.mode >= gormlogger.Info {
		l.logg.Debug(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.mode >= gormlogger.Warn {
		l.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.mode >= gormlogger.Error {
		l.logg.Error(ctx, "gorm", fmt.Errorf(msg, args...))
	}
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, query func() (string, int64), err error) {
	if l.mode <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !IsNotFound(err) && !IsUniqueViolation(err, "") && l.mode >= gormlogger.Error:
		sql, rows := query()
		l.logg.Error(l.fields(ctx, sql, rows, elapsed), "query failed", err)
	case l.slow > 0 && elapsed > l.slow && l.mode >= gormlogger.Warn:
		sql, rows := query()
		l.logg.Warn(l.fields(ctx, sql, rows, elapsed), "slow query")
	case l.mode >= gormlogger.Info:
		sql, rows := query()
		l.logg.Debug(l.fields(ctx, sql, rows, elapsed), "query")
	}
}

func (l *queryLogger) fields(ctx context.Context, sql string, rows int64, elapsed time.Duration) context.Context {
	return l.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
}
