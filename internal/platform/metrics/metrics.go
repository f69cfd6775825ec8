package metrics

import (
	"gamehub_backend/internal/domain"
	"gamehub_backend/internal/signup"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for account provisioning.
type Metrics struct {
	SignupOutcomes          *prometheus.CounterVec
	DuplicateQueryFailures  *prometheus.CounterVec
	Inconsistencies         *prometheus.CounterVec
	ReconciliationsResolved *prometheus.CounterVec
}

var _ signup.Recorder = (*Metrics)(nil)

// NewRegistry creates the registry served on /metrics, with the Go and process
// collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// New creates and registers all metrics on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SignupOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gamehub_signup_outcomes_total",
			Help: "Signup attempts by outcome kind and reason",
		}, []string{"kind", "reason"}),
		DuplicateQueryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gamehub_signup_duplicate_query_failures_total",
			Help: "Failed duplicate email queries by configured policy",
		}, []string{"policy"}),
		Inconsistencies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gamehub_signup_inconsistencies_total",
			Help: "Identities whose follow-up write failed, by step",
		}, []string{"step"}),
		ReconciliationsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gamehub_reconciliations_total",
			Help: "Reconciliation entries processed, by step and result",
		}, []string{"step", "result"}),
	}
}

// ObserveOutcome counts one signup attempt.
func (m *Metrics) ObserveOutcome(kind signup.OutcomeKind, reason string) {
	m.SignupOutcomes.WithLabelValues(string(kind), reason).Inc()
}

// IncDuplicateQueryFailure counts a failed uniqueness query.
func (m *Metrics) IncDuplicateQueryFailure(policy signup.DuplicatePolicy) {
	m.DuplicateQueryFailures.WithLabelValues(string(policy)).Inc()
}

// IncInconsistency counts an identity left without its display name or document.
func (m *Metrics) IncInconsistency(step domain.InconsistencyStep) {
	m.Inconsistencies.WithLabelValues(string(step)).Inc()
}

// ObserveReconciliation counts a processed ledger entry.
func (m *Metrics) ObserveReconciliation(step domain.InconsistencyStep, result string) {
	m.ReconciliationsResolved.WithLabelValues(string(step), result).Inc()
}
