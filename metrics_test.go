package quartzcron

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, reg *prometheus.Registry, family, job string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == jobNameLabel && lp.GetValue() == job {
					return m
				}
			}
		}
	}
	t.Fatalf("metric %s{job_name=%q} not found", family, job)
	return nil
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)
	hooks := m.Hooks()

	next := utc(2025, 1, 2, 12, 0, 0)
	hooks.OnSchedule(1, "backup", next)
	hooks.OnSchedule(2, "", time.Time{})
	hooks.OnJobStart(1, "backup", utc(2025, 1, 1, 12, 0, 0))
	hooks.OnJobComplete(1, "backup", 2*time.Second, nil)
	hooks.OnJobStart(2, "", utc(2025, 1, 1, 12, 0, 0))
	hooks.OnJobComplete(2, "", 10*time.Millisecond, "boom")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobStarts.WithLabelValues("backup")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobStarts.WithLabelValues("unnamed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobPanics.WithLabelValues("unnamed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.JobPanics))
	assert.Equal(t, float64(next.Unix()), testutil.ToFloat64(m.NextRun.WithLabelValues("backup")))
	assert.Zero(t, testutil.ToFloat64(m.NextRun.WithLabelValues("unnamed")))

	h := findMetric(t, reg, "quartzcron_job_duration_seconds", "backup").GetHistogram()
	require.NotNil(t, h)
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 2.0, h.GetSampleSum(), 1e-9)
}

func TestPrometheusMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusHooks(reg)
	require.NoError(t, err)

	_, err = NewPrometheusHooks(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestPrometheusHooksWithCron(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks, err := NewPrometheusHooks(reg)
	require.NoError(t, err)

	c, fc := newTestCron(utc(2025, 1, 1, 0, 0, 0), WithObservability(hooks))
	done := make(chan struct{})
	_, err = c.AddFunc("0 30 * * * ?", func() { close(done) }, WithName("half-hourly"))
	require.NoError(t, err)

	c.Start()
	waitForTimer(t, fc)
	assert.Equal(t, float64(utc(2025, 1, 1, 0, 30, 0).Unix()),
		findMetric(t, reg, "quartzcron_next_run_timestamp_seconds", "half-hourly").GetGauge().GetValue())

	fc.Step(30 * time.Minute)
	receive(t, done)
	c.StopAndWait()

	assert.Equal(t, float64(1),
		findMetric(t, reg, "quartzcron_job_starts_total", "half-hourly").GetCounter().GetValue())
	assert.Equal(t, uint64(1),
		findMetric(t, reg, "quartzcron_job_duration_seconds", "half-hourly").GetHistogram().GetSampleCount())
	assert.Equal(t, float64(utc(2025, 1, 1, 1, 30, 0).Unix()),
		findMetric(t, reg, "quartzcron_next_run_timestamp_seconds", "half-hourly").GetGauge().GetValue())
}
