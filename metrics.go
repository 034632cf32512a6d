package quartzcron

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const jobNameLabel = "job_name"

// PrometheusMetrics are the collectors behind NewPrometheusHooks.
type PrometheusMetrics struct {
	// JobStarts counts job invocations.
	JobStarts *prometheus.CounterVec

	// JobDuration observes how long jobs run, in seconds.
	JobDuration *prometheus.HistogramVec

	// JobPanics counts jobs that panicked past the chain.
	JobPanics *prometheus.CounterVec

	// NextRun is the Unix time of each job's next activation, 0 when its
	// schedule is exhausted.
	NextRun *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the runner's collectors and registers them
// with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		JobStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quartzcron_job_starts_total",
			Help: "Number of job invocations",
		}, []string{jobNameLabel}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quartzcron_job_duration_seconds",
			Help:    "Job run time in seconds",
			Buckets: []float64{0.01, 0.1, 1, 5, 10, 60, 300},
		}, []string{jobNameLabel}),
		JobPanics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quartzcron_job_panics_total",
			Help: "Number of job invocations that panicked",
		}, []string{jobNameLabel}),
		NextRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "quartzcron_next_run_timestamp_seconds",
			Help: "Unix time of the next scheduled run, 0 if none",
		}, []string{jobNameLabel}),
	}
	for _, c := range []prometheus.Collector{m.JobStarts, m.JobDuration, m.JobPanics, m.NextRun} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns ObservabilityHooks that feed the collectors. Unnamed
// entries are labelled "unnamed".
func (m *PrometheusMetrics) Hooks() ObservabilityHooks {
	return ObservabilityHooks{
		OnJobStart: func(_ EntryID, name string, _ time.Time) {
			m.JobStarts.WithLabelValues(metricName(name)).Inc()
		},
		OnJobComplete: func(_ EntryID, name string, d time.Duration, recovered any) {
			m.JobDuration.WithLabelValues(metricName(name)).Observe(d.Seconds())
			if recovered != nil {
				m.JobPanics.WithLabelValues(metricName(name)).Inc()
			}
		},
		OnSchedule: func(_ EntryID, name string, next time.Time) {
			var ts float64
			if !next.IsZero() {
				ts = float64(next.Unix())
			}
			m.NextRun.WithLabelValues(metricName(name)).Set(ts)
		},
	}
}

// NewPrometheusHooks registers the runner's collectors with reg and returns
// hooks for WithObservability.
//
//	hooks, err := quartzcron.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	c := quartzcron.New(quartzcron.WithObservability(hooks))
func NewPrometheusHooks(reg prometheus.Registerer) (ObservabilityHooks, error) {
	m, err := NewPrometheusMetrics(reg)
	if err != nil {
		return ObservabilityHooks{}, err
	}
	return m.Hooks(), nil
}

func metricName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
