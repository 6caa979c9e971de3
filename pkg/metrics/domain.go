package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics records wallet operations and order lifecycle transitions.
type DomainMetrics struct {
	walletOps       *prometheus.CounterVec
	walletFailures  *prometheus.CounterVec
	walletDuration  *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	transitionFails *prometheus.CounterVec
	escrowHeld      prometheus.Gauge
}

// NewDomainMetrics registers the domain metrics on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	walletOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_operations_total",
		Help: "Completed wallet operations by type.",
	}, []string{"operation"})
	walletFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_operation_failures_total",
		Help: "Failed wallet operations by type and error code.",
	}, []string{"operation", "code"})
	walletDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_operation_duration_seconds",
		Help:    "Duration of wallet operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Applied order status transitions.",
	}, []string{"from", "to"})
	transitionFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_failures_total",
		Help: "Rejected order status transitions.",
	}, []string{"from", "to"})
	escrowHeld := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "escrow_held_cents",
		Help: "Total cents currently held in escrow.",
	})
	reg.MustRegister(walletOps, walletFailures, walletDuration, transitions, transitionFails, escrowHeld)
	return &DomainMetrics{
		walletOps:       walletOps,
		walletFailures:  walletFailures,
		walletDuration:  walletDuration,
		transitions:     transitions,
		transitionFails: transitionFails,
		escrowHeld:      escrowHeld,
	}
}

// IncWalletOp increments the counter for a completed wallet operation.
func (m *DomainMetrics) IncWalletOp(operation string) {
	if m == nil || m.walletOps == nil {
		return
	}
	m.walletOps.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncWalletFailure increments the failure counter for a wallet operation.
func (m *DomainMetrics) IncWalletFailure(operation, code string) {
	if m == nil || m.walletFailures == nil {
		return
	}
	m.walletFailures.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// ObserveWalletDuration records how long a wallet operation took.
func (m *DomainMetrics) ObserveWalletDuration(operation string, duration time.Duration) {
	if m == nil || m.walletDuration == nil {
		return
	}
	m.walletDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncTransition increments the counter for an applied order transition.
func (m *DomainMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncTransitionFailure increments the counter for a rejected order transition.
func (m *DomainMetrics) IncTransitionFailure(from, to string) {
	if m == nil || m.transitionFails == nil {
		return
	}
	m.transitionFails.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// AddEscrowHeld moves the escrow gauge by delta cents. Negative deltas release.
func (m *DomainMetrics) AddEscrowHeld(delta int64) {
	if m == nil || m.escrowHeld == nil {
		return
	}
	m.escrowHeld.Add(float64(delta))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
