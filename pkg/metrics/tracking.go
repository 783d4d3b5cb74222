package metrics

import "github.com/prometheus/client_golang/prometheus"

// TrackingMetrics counts per-run outcomes of the price-tracking loop.
type TrackingMetrics struct {
	updated prometheus.Counter
	failed  prometheus.Counter
	stopped prometheus.Counter
}

// NewTrackingMetrics registers the tracking counters on the provided registerer.
func NewTrackingMetrics(reg prometheus.Registerer) *TrackingMetrics {
	if reg == nil {
		return &TrackingMetrics{}
	}
	updated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_events_updated_total",
		Help: "Events whose price was successfully recorded.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_events_failed_total",
		Help: "Events whose price fetch failed during a run.",
	})
	stopped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_events_stopped_total",
		Help: "Events transitioned from active to stopped.",
	})
	reg.MustRegister(updated, failed, stopped)
	return &TrackingMetrics{updated: updated, failed: failed, stopped: stopped}
}

// AddUpdated adds successfully priced events to the counter.
func (t *TrackingMetrics) AddUpdated(n int) {
	if t == nil || t.updated == nil || n <= 0 {
		return
	}
	t.updated.Add(float64(n))
}

// AddFailed adds failed events to the counter.
func (t *TrackingMetrics) AddFailed(n int) {
	if t == nil || t.failed == nil || n <= 0 {
		return
	}
	t.failed.Add(float64(n))
}

// AddStopped adds stop transitions to the counter.
func (t *TrackingMetrics) AddStopped(n int) {
	if t == nil || t.stopped == nil || n <= 0 {
		return
	}
	t.stopped.Add(float64(n))
}
