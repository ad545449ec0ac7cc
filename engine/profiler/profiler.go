// Package profiler tracks frame rate and memory statistics, logging them through slog and
// exporting them as Prometheus metrics.
package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Reports stats at a configurable interval. Tick is called from the render thread only.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics

	lastFPS float64
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         slog.Default(),
		metrics:        NewMetrics(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Metrics returns the collectors the profiler feeds.
func (p *Profiler) Metrics() *Metrics {
	return p.metrics
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	return p.lastFPS
}

// FrameFailed records a frame whose render returned an error.
func (p *Profiler) FrameFailed() {
	p.metrics.IncFrameErrors()
}

// Tick should be called once per frame to track frame timing.
// Reports performance statistics when the update interval has elapsed: FPS, heap usage,
// allocation rate, GC count and pause times, total memory.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	p.metrics.framesTotal.Inc()

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRate := float64(allocDelta) / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseNs, maxPauseNs uint64
	if gcCount > 0 {
		lastPauseNs = p.memStats.PauseNs[(gcCount-1)%256]
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseNs = max(maxPauseNs, p.memStats.PauseNs[i%256])
		}
	}

	p.metrics.fps.Set(fps)
	p.metrics.heapBytes.Set(float64(p.memStats.Alloc))
	p.metrics.allocRate.Set(allocRate)
	p.metrics.gcLastPause.Set(float64(lastPauseNs) / 1e9)

	p.logger.Debug("frame stats",
		"fps", fps,
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRate/1024/1024,
		"gc_count", gcCount,
		"gc_last_pause_us", lastPauseNs/1000,
		"gc_max_pause_us", maxPauseNs/1000,
		"sys_mb", sysMB,
	)

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
