package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the service's HTTP and cart mutation counters.
type Metrics struct {
	httpDuration  *prometheus.HistogramVec
	cartMutations *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by action and outcome.",
	}, []string{"action", "outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(httpDuration, cartMutations, checkouts)
	return &Metrics{
		httpDuration:  httpDuration,
		cartMutations: cartMutations,
		checkouts:     checkouts,
	}
}

// ObserveHTTP records the duration of one handled request.
func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.
		WithLabelValues(normalizeLabel(route), normalizeLabel(method), strconv.Itoa(status)).
		Observe(duration.Seconds())
}

// IncCartMutation increments the mutation counter for an action/outcome pair.
func (m *Metrics) IncCartMutation(action, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// IncCheckout increments the checkout counter for the outcome.
func (m *Metrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
