package env

import "testing"

func TestGetPrefersPrefixedVariable(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	if got := Get("LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected bare variable, got %q", got)
	}

	t.Setenv(Prefix+"LOG_FORMAT", "json")
	if got := Get("LOG_FORMAT", "text"); got != "json" {
		t.Fatalf("expected prefixed variable to win, got %q", got)
	}

	if got := Get("MISSING_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv(Prefix+"FLAG_FOR_TEST", "true")
	if !Bool("FLAG_FOR_TEST", false) {
		t.Fatal("expected true")
	}
	t.Setenv(Prefix+"FLAG_FOR_TEST", "maybe")
	if !Bool("FLAG_FOR_TEST", true) {
		t.Fatal("unparsable value should fall back")
	}
}
