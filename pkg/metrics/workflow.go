package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics counts outcomes of the activation and fulfillment workflows.
type WorkflowMetrics struct {
	activations *prometheus.CounterVec
	orders      prometheus.Counter
	cards       prometheus.Counter
}

// NewWorkflowMetrics registers workflow counters on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	activations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "card_activations_total",
		Help: "Card activation attempts by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_fulfilled_total",
		Help: "Orders created by the payment webhook.",
	})
	cards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cards_generated_total",
		Help: "Cards generated during order fulfillment.",
	})
	reg.MustRegister(activations, orders, cards)
	return &WorkflowMetrics{
		activations: activations,
		orders:      orders,
		cards:       cards,
	}
}

// IncActivation records an activation attempt outcome.
func (m *WorkflowMetrics) IncActivation(outcome string) {
	if m == nil || m.activations == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.activations.WithLabelValues(outcome).Inc()
}

// IncOrderFulfilled records one fulfilled order.
func (m *WorkflowMetrics) IncOrderFulfilled() {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Inc()
}

// AddCardsGenerated records cards created during fulfillment.
func (m *WorkflowMetrics) AddCardsGenerated(n int) {
	if m == nil || m.cards == nil || n <= 0 {
		return
	}
	m.cards.Add(float64(n))
}
