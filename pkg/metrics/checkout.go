package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records public order creation outcomes.
type CheckoutMetrics struct {
	created    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuflow_orders_created_total",
		Help: "Orders created through public checkout.",
	}, []string{"type"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuflow_checkout_rejections_total",
		Help: "Checkout attempts rejected, by error code.",
	}, []string{"code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "menuflow_checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(created, rejections, duration)
	return &CheckoutMetrics{
		created:    created,
		rejections: rejections,
		duration:   duration,
	}
}

// ObserveCreated counts a persisted order and its checkout latency.
func (c *CheckoutMetrics) ObserveCreated(orderType string, duration time.Duration) {
	if c == nil || c.created == nil {
		return
	}
	c.created.WithLabelValues(normalizeLabel(orderType)).Inc()
	c.duration.WithLabelValues("created").Observe(duration.Seconds())
}

// ObserveRejected counts a failed checkout under its error code.
func (c *CheckoutMetrics) ObserveRejected(code string, duration time.Duration) {
	if c == nil || c.rejections == nil {
		return
	}
	c.rejections.WithLabelValues(normalizeLabel(code)).Inc()
	c.duration.WithLabelValues("rejected").Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
