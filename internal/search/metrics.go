package search

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeApplied    = "applied"
	outcomeSuperseded = "superseded"
	outcomeFailed     = "failed"
)

// Metrics counts remote searches by outcome. A nil *Metrics records nothing.
type Metrics struct {
	searches *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookdiary",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Remote book searches by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.searches)
	return m
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
}
