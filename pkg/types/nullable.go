package types

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a JSON field was present and whether it was null,
// so PATCH handlers can tell "leave unchanged" from "clear".
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	n.Set = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Value = &parsed
	return nil
}

// Some builds a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null builds a present null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Apply writes the value under key when the field was present.
func (n Nullable[T]) Apply(updates map[string]any, key string) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		updates[key] = nil
		return
	}
	updates[key] = *n.Value
}
