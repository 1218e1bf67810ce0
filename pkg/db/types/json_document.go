package dbtypes

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument stores raw JSON in a jsonb (postgres) or text (sqlite) column.
// An empty document maps to SQL NULL.
type JSONDocument []byte

func (d *JSONDocument) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case string:
		return d.assign([]byte(v))
	case []byte:
		return d.assign(v)
	default:
		return fmt.Errorf("JSONDocument: unsupported Scan type %T", src)
	}
}

// Value renders the document as a string so jsonb accepts it under the simple protocol.
func (d JSONDocument) Value() (driver.Value, error) {
	if d.IsNull() {
		return nil, nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("JSONDocument: invalid json")
	}
	return string(d), nil
}

// IsNull reports whether the document is absent or the JSON literal null.
func (d JSONDocument) IsNull() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if d.IsNull() {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	return d.assign(data)
}

func (d *JSONDocument) assign(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = nil
		return nil
	}
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	*d = JSONDocument(out)
	return nil
}
