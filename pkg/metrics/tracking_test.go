package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTrackingMetrics(reg)

	m.AddUpdated(2)
	m.AddFailed(1)
	m.AddStopped(3)
	m.AddUpdated(0) // no-op

	if got := testutil.ToFloat64(m.updated); got != 2 {
		t.Fatalf("updated = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failed); got != 1 {
		t.Fatalf("failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stopped); got != 3 {
		t.Fatalf("stopped = %v, want 3", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *TrackingMetrics
	m.AddUpdated(1)
	m.AddFailed(1)
	m.AddStopped(1)

	var c *CronJobMetrics
	c.ObserveDuration("price-tracking", time.Second)
	c.IncSuccess("price-tracking")
	c.IncFailure("price-tracking")
}
