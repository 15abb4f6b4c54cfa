package telemetry

import (
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated export statistics for one time window.
type WindowStats struct {
	WindowEndTick int     `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Frames handed to the encoder during the window.
	FramesSubmitted int `csv:"frames_submitted"`
	BytesSubmitted  int `csv:"bytes_submitted"`

	// Frames skipped because capture failed.
	CaptureFailures int `csv:"capture_failures"`

	// Time the render loop spent blocked handing frames to the
	// encoder: the visible cost of backpressure.
	SubmitWaitMeanMs float64 `csv:"submit_wait_mean_ms"`
	SubmitWaitStdMs  float64 `csv:"submit_wait_std_ms"`
	SubmitWaitMaxMs  float64 `csv:"submit_wait_max_ms"`
}

// Collector accumulates export events within time windows and produces
// WindowStats. It is used from the render loop only.
type Collector struct {
	windowTicks int
	frameRate   int

	windowStart int
	frames      int
	bytes       int
	failures    int
	waitsMs     []float64
}

// NewCollector creates a stats collector with the given window length
// in ticks. frameRate converts ticks to simulation seconds.
func NewCollector(windowTicks, frameRate int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: windowTicks,
		frameRate:   frameRate,
	}
}

// RecordSubmit records one frame hand-off and how long it blocked.
func (c *Collector) RecordSubmit(bytes int, waitMs float64) {
	c.frames++
	c.bytes += bytes
	c.waitsMs = append(c.waitsMs, waitMs)
}

// RecordCaptureFailure records a frame skipped due to a readback error.
func (c *Collector) RecordCaptureFailure() {
	c.failures++
}

// WindowComplete reports whether the window ending at tick is full.
func (c *Collector) WindowComplete(tick int) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces the stats for the completed window and resets the
// counters for the next one.
func (c *Collector) Flush(tick int) WindowStats {
	mean, std := stat.MeanStdDev(c.waitsMs, nil)
	if len(c.waitsMs) < 2 {
		std = 0
	}
	var maxWait float64
	for _, w := range c.waitsMs {
		if w > maxWait {
			maxWait = w
		}
	}

	stats := WindowStats{
		WindowEndTick:    tick,
		SimTimeSec:       float64(tick) / float64(c.frameRate),
		FramesSubmitted:  c.frames,
		BytesSubmitted:   c.bytes,
		CaptureFailures:  c.failures,
		SubmitWaitMeanMs: mean,
		SubmitWaitStdMs:  std,
		SubmitWaitMaxMs:  maxWait,
	}
	if len(c.waitsMs) == 0 {
		stats.SubmitWaitMeanMs = 0
	}

	c.windowStart = tick
	c.frames = 0
	c.bytes = 0
	c.failures = 0
	c.waitsMs = c.waitsMs[:0]
	return stats
}
