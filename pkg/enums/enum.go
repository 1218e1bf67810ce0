package enums

import (
	"fmt"
	"slices"
)

// closedSet is the fixed value list behind an enum's IsValid and Parse.
// Parsing is exact: callers normalize case before parsing if they accept it.
type closedSet[T ~string] struct {
	label  string
	values []T
}

func (s closedSet[T]) contains(v T) bool {
	return slices.Contains(s.values, v)
}

func (s closedSet[T]) parse(raw string) (T, error) {
	if v := T(raw); s.contains(v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", s.label, raw)
}
