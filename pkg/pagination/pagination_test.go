package pagination

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTripIsURLSafe(t *testing.T) {
	t.Parallel()

	want := Cursor{
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 789000000, time.FixedZone("EET", 2*3600)),
		ID:        uuid.New(),
	}
	token := EncodeCursor(want)
	if url.QueryEscape(token) != token {
		t.Fatalf("cursor %q needs escaping", token)
	}

	got, err := ParseCursor(token)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", got.CreatedAt.Location())
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should mean first page, got %v %v", c, err)
	}
	for _, raw := range []string{"!!!", "bm8tc2VwYXJhdG9y", EncodeCursor(Cursor{})[:4]} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-1: DefaultLimit, 0: DefaultLimit, 7: 7, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestTrim(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Cursor, 4)
	for i := range rows {
		rows[i] = Cursor{CreatedAt: base.Add(-time.Duration(i) * time.Minute), ID: uuid.New()}
	}
	key := func(c Cursor) Cursor { return c }

	page, next := Trim(rows, 3, key)
	if len(page) != 3 || next == "" {
		t.Fatalf("expected 3 rows and a cursor, got %d %q", len(page), next)
	}
	cursor, err := ParseCursor(next)
	if err != nil || cursor.ID != rows[2].ID {
		t.Fatalf("next cursor should point at the last row of the page: %v %v", cursor, err)
	}

	page, next = Trim(rows[:2], 3, key)
	if len(page) != 2 || next != "" {
		t.Fatalf("last page should have no cursor, got %d %q", len(page), next)
	}
}
