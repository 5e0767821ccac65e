package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and checkout activity.
type StorefrontMetrics struct {
	cartOps      *prometheus.CounterVec
	cartFailures *prometheus.CounterVec
	ordersPlaced prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	cartFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_failures_total",
		Help: "Rejected cart mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Completed checkouts.",
	})
	reg.MustRegister(cartOps, cartFailures, ordersPlaced)
	return &StorefrontMetrics{
		cartOps:      cartOps,
		cartFailures: cartFailures,
		ordersPlaced: ordersPlaced,
	}
}

// IncCartOp increments the counter for the named cart operation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCartFailure increments the failure counter for the named cart operation.
func (m *StorefrontMetrics) IncCartFailure(op string) {
	if m == nil || m.cartFailures == nil {
		return
	}
	m.cartFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncOrderPlaced increments the completed-checkout counter.
func (m *StorefrontMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
