package tracker

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts logged sessions. A nil *Metrics records nothing.
type Metrics struct {
	sessions *prometheus.CounterVec
	pages    prometheus.Counter
	minutes  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookdiary",
			Subsystem: "tracker",
			Name:      "sessions_total",
			Help:      "Logged reading sessions by outcome.",
		}, []string{"outcome"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookdiary",
			Subsystem: "tracker",
			Name:      "pages_read_total",
			Help:      "Pages read across all logged sessions.",
		}),
		minutes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookdiary",
			Subsystem: "tracker",
			Name:      "minutes_read_total",
			Help:      "Minutes read across all logged sessions.",
		}),
	}
	reg.MustRegister(m.sessions, m.pages, m.minutes)
	return m
}

func (m *Metrics) observe(outcome string, pages, minutes int) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(outcome).Inc()
	if outcome == outcomeFailed {
		return
	}
	m.pages.Add(float64(pages))
	m.minutes.Add(float64(minutes))
}
