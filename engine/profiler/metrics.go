package profiler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricFramesTotal     = "oxy_badge_frames_total"
	MetricFPS             = "oxy_badge_fps"
	MetricHeapBytes       = "oxy_badge_heap_bytes"
	MetricAllocRate       = "oxy_badge_alloc_bytes_per_second"
	MetricGCPauseSeconds  = "oxy_badge_gc_last_pause_seconds"
	MetricFrameErrorTotal = "oxy_badge_frame_errors_total"
)

// Metrics holds the Prometheus collectors fed by the profiler and the render loop.
// All operations are thread-safe.
type Metrics struct {
	framesTotal prometheus.Counter
	frameErrors prometheus.Counter
	fps         prometheus.Gauge
	heapBytes   prometheus.Gauge
	allocRate   prometheus.Gauge
	gcLastPause prometheus.Gauge
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricFramesTotal,
			Help: "Total number of rendered frames",
		}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricFrameErrorTotal,
			Help: "Total number of frames whose render failed",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricFPS,
			Help: "Frames per second over the last profiling interval",
		}),
		heapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricHeapBytes,
			Help: "Bytes of allocated heap objects",
		}),
		allocRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricAllocRate,
			Help: "Heap allocation rate over the last profiling interval",
		}),
		gcLastPause: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricGCPauseSeconds,
			Help: "Duration of the most recent GC pause",
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncFrameErrors increments the frame error counter.
func (m *Metrics) IncFrameErrors() {
	m.frameErrors.Inc()
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.framesTotal,
		m.frameErrors,
		m.fps,
		m.heapBytes,
		m.allocRate,
		m.gcLastPause,
	}
}
