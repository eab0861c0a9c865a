// Package metrics exposes the prometheus collectors of the planner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	StorageOps    *prometheus.CounterVec
	StorageErrors *prometheus.CounterVec
	CartMutations *prometheus.CounterVec
	Events        prometheus.Gauge
	CartItems     prometheus.Gauge
	ShoppingLists prometheus.Counter
	Backups       *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StorageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "storage_operations_total",
			Help:      "Key-value store operations by kind.",
		}, []string{"op"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "storage_errors_total",
			Help:      "Key-value store failures swallowed at the storage boundary.",
		}, []string{"op"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "cart_mutations_total",
			Help:      "Cart changes by kind.",
		}, []string{"kind"}),
		Events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planmyevents",
			Name:      "events",
			Help:      "Number of stored events.",
		}),
		CartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planmyevents",
			Name:      "cart_items",
			Help:      "Number of cart items across all events.",
		}),
		ShoppingLists: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "shopping_lists_generated_total",
			Help:      "Shopping lists generated.",
		}),
		Backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "backups_total",
			Help:      "Backups written by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyevents",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.StorageOps, m.StorageErrors, m.CartMutations, m.Events,
		m.CartItems, m.ShoppingLists, m.Backups, m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) StorageOp(op string) {
	if m != nil {
		m.StorageOps.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) StorageError(op string) {
	if m != nil {
		m.StorageErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) CartMutation(kind string) {
	if m != nil {
		m.CartMutations.WithLabelValues(kind).Inc()
	}
}

// SetSizes records the current number of events and cart items
func (m *Metrics) SetSizes(events, cartItems int) {
	if m != nil {
		m.Events.Set(float64(events))
		m.CartItems.Set(float64(cartItems))
	}
}

func (m *Metrics) ShoppingListGenerated() {
	if m != nil {
		m.ShoppingLists.Inc()
	}
}

func (m *Metrics) Backup(result string) {
	if m != nil {
		m.Backups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) HTTPRequest(method, code string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, code).Inc()
	}
}
