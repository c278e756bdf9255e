package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Capture outcome label values.
const (
	statusOK     = "ok"
	statusCached = "cached"
	statusFailed = "failed"
)

// Metrics counts batch work on a private registry so a run can be dumped as
// a node-exporter textfile without Go runtime metrics mixed in.
type Metrics struct {
	registry *prometheus.Registry

	captures     *prometheus.CounterVec
	duration     prometheus.Histogram
	frames       prometheus.Counter
	driftedStats prometheus.Counter
}

// NewMetrics registers the batch metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lolmetrics",
			Subsystem: "batch",
			Name:      "captures_total",
			Help:      "Captures handled, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lolmetrics",
			Subsystem: "batch",
			Name:      "capture_duration_seconds",
			Help:      "Wall time to load and process one capture.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lolmetrics",
			Subsystem: "batch",
			Name:      "frames_total",
			Help:      "Timeline frames built across processed captures.",
		}),
		driftedStats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lolmetrics",
			Subsystem: "batch",
			Name:      "drifted_stat_updates_total",
			Help:      "Stat updates attached to a later frame than their own tick.",
		}),
	}
	m.registry.MustRegister(m.captures, m.duration, m.frames, m.driftedStats)
	return m
}

func (m *Metrics) observe(o Outcome) {
	if m == nil {
		return
	}
	switch {
	case o.Err != nil:
		m.captures.WithLabelValues(statusFailed).Inc()
	case o.Cached:
		m.captures.WithLabelValues(statusCached).Inc()
	default:
		m.captures.WithLabelValues(statusOK).Inc()
		m.frames.Add(float64(o.Result.Summary.FrameCount))
		m.driftedStats.Add(float64(o.Result.Merge.Drifted))
	}
	m.duration.Observe(o.Took.Seconds())
}

// WriteFile writes the current metric values in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
