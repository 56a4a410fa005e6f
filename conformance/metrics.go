package conformance

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for conformance runs.
type Metrics struct {
	cases    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the conformance collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oasconform",
			Subsystem: "conformance",
			Name:      "cases_total",
			Help:      "Total conformance cases run, by outcome",
		}, []string{"outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oasconform",
			Subsystem: "conformance",
			Name:      "case_duration_seconds",
			Help:      "Time spent on one conformance case, by outcome",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.cases, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(e Entry) {
	if m == nil {
		return
	}
	outcome := string(e.Outcome)
	m.cases.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(e.Duration.Seconds())
}
