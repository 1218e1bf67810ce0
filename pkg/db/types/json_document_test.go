package dbtypes

import "testing"

func TestJSONDocumentScanAndValue(t *testing.T) {
	var doc JSONDocument
	if err := doc.Scan([]byte(` {"days":{}} `)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	val, err := doc.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if val != `{"days":{}}` {
		t.Fatalf("unexpected value %v", val)
	}

	if err := doc.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !doc.IsNull() {
		t.Fatal("expected null document after scanning nil")
	}
	if val, err := doc.Value(); err != nil || val != nil {
		t.Fatalf("expected SQL NULL, got %v (%v)", val, err)
	}

	if err := doc.Scan("null"); err != nil || !doc.IsNull() {
		t.Fatalf("json null literal should scan as absent")
	}
	if err := doc.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func TestJSONDocumentRejectsInvalidJSON(t *testing.T) {
	doc := JSONDocument(`{"days":`)
	if _, err := doc.Value(); err == nil {
		t.Fatal("expected invalid json error")
	}
}
