package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgUnique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "restaurants_slug_key"}
	pgFK := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "orders_restaurant_id_fkey"}

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pg unique any", err: pgUnique, want: true},
		{name: "pg unique wrapped", err: fmt.Errorf("insert: %w", pgUnique), constraint: "restaurants_slug_key", want: true},
		{name: "pg unique other constraint", err: pgUnique, constraint: "users_email_key", want: false},
		{name: "pg foreign key", err: pgFK, want: false},
		{name: "gorm duplicated", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite unique", err: errors.New("UNIQUE constraint failed: restaurants.slug"), constraint: "restaurants.slug", want: true},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped not found to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("plain error should not match")
	}
}
