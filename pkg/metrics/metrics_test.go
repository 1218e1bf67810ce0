package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// sample gathers reg and returns the series of family name carrying
// label=value, failing the test when it is absent.
func sample(t *testing.T, reg *prometheus.Registry, name, label, value string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return m
				}
			}
		}
	}
	t.Fatalf("no %s series with %s=%q", name, label, value)
	return nil
}

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	checkout := NewCheckoutMetrics(reg)
	checkout.ObserveCreated("TABLE", 250*time.Millisecond)
	checkout.ObserveCreated("TABLE", 100*time.Millisecond)
	checkout.ObserveCreated("PICKUP", 50*time.Millisecond)
	checkout.ObserveRejected("FEATURE_DISABLED", 10*time.Millisecond)
	checkout.ObserveRejected("", time.Millisecond)

	if got := sample(t, reg, "menuflow_orders_created_total", "type", "TABLE").GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 table orders, got %v", got)
	}
	if got := sample(t, reg, "menuflow_checkout_rejections_total", "code", "FEATURE_DISABLED").GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
	// blank codes land under "unknown"
	sample(t, reg, "menuflow_checkout_rejections_total", "code", "unknown")

	created := sample(t, reg, "menuflow_checkout_duration_seconds", "outcome", "created").GetHistogram()
	if created.GetSampleCount() != 3 || created.GetSampleSum() < 0.39 {
		t.Fatalf("unexpected created histogram count=%d sum=%v", created.GetSampleCount(), created.GetSampleSum())
	}
}

func TestHTTPMetricsLabelsByRoute(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)
	httpMetrics.Observe("GET", "/api/public/restaurants/{slug}", 200, 5*time.Millisecond)
	httpMetrics.Observe("GET", "/api/public/restaurants/{slug}", 404, time.Millisecond)
	httpMetrics.Observe("GET", "", 404, time.Millisecond)

	route := sample(t, reg, "menuflow_http_request_duration_seconds", "route", "/api/public/restaurants/{slug}")
	if got := route.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected both statuses under one route histogram, got %d", got)
	}
	if got := sample(t, reg, "menuflow_http_requests_total", "status", "404").GetCounter().GetValue(); got < 1 {
		t.Fatalf("expected a 404 counter, got %v", got)
	}
	sample(t, reg, "menuflow_http_requests_total", "route", "unknown")
}

func TestNilRegistererIsNoop(t *testing.T) {
	t.Parallel()

	var checkout *CheckoutMetrics
	checkout.ObserveCreated("TABLE", time.Second)
	NewCheckoutMetrics(nil).ObserveRejected("X", time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)

	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/", 200, time.Second)
}
