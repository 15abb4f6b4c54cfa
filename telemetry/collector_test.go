package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowBoundary(t *testing.T) {
	c := NewCollector(300, 60)

	if c.WindowComplete(299) {
		t.Error("window reported complete one tick early")
	}
	if !c.WindowComplete(300) {
		t.Error("window not complete at its full length")
	}

	c.Flush(300)
	if c.WindowComplete(599) {
		t.Error("window start did not advance after flush")
	}
	if !c.WindowComplete(600) {
		t.Error("second window not complete at its full length")
	}
}

func TestCollectorAggregates(t *testing.T) {
	c := NewCollector(300, 60)

	c.RecordSubmit(100, 2.0)
	c.RecordSubmit(100, 4.0)
	c.RecordSubmit(100, 6.0)
	c.RecordCaptureFailure()

	stats := c.Flush(300)
	if stats.WindowEndTick != 300 {
		t.Errorf("window end tick = %d, want 300", stats.WindowEndTick)
	}
	if stats.SimTimeSec != 5.0 {
		t.Errorf("sim time = %g, want 5", stats.SimTimeSec)
	}
	if stats.FramesSubmitted != 3 {
		t.Errorf("frames submitted = %d, want 3", stats.FramesSubmitted)
	}
	if stats.BytesSubmitted != 300 {
		t.Errorf("bytes submitted = %d, want 300", stats.BytesSubmitted)
	}
	if stats.CaptureFailures != 1 {
		t.Errorf("capture failures = %d, want 1", stats.CaptureFailures)
	}
	if math.Abs(stats.SubmitWaitMeanMs-4.0) > 1e-12 {
		t.Errorf("mean wait = %g, want 4", stats.SubmitWaitMeanMs)
	}
	if math.Abs(stats.SubmitWaitStdMs-2.0) > 1e-12 {
		t.Errorf("wait std = %g, want 2", stats.SubmitWaitStdMs)
	}
	if stats.SubmitWaitMaxMs != 6.0 {
		t.Errorf("max wait = %g, want 6", stats.SubmitWaitMaxMs)
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(300, 60)
	c.RecordSubmit(100, 2.0)
	c.Flush(300)

	stats := c.Flush(600)
	if stats.FramesSubmitted != 0 || stats.BytesSubmitted != 0 || stats.CaptureFailures != 0 {
		t.Errorf("counters not reset after flush: %+v", stats)
	}
	if stats.SubmitWaitMeanMs != 0 || stats.SubmitWaitMaxMs != 0 {
		t.Errorf("wait stats not reset after flush: %+v", stats)
	}
}

func TestCollectorEmptyWindow(t *testing.T) {
	c := NewCollector(300, 60)

	// An empty window must produce zeroes, not NaN, so the CSV stays
	// parseable.
	stats := c.Flush(300)
	if math.IsNaN(stats.SubmitWaitMeanMs) || math.IsNaN(stats.SubmitWaitStdMs) {
		t.Errorf("empty window produced NaN wait stats: %+v", stats)
	}
}

func TestCollectorSingleSample(t *testing.T) {
	c := NewCollector(300, 60)
	c.RecordSubmit(100, 3.0)

	// Standard deviation of a single sample is undefined; it must be
	// reported as zero.
	stats := c.Flush(300)
	if stats.SubmitWaitStdMs != 0 {
		t.Errorf("single-sample std = %g, want 0", stats.SubmitWaitStdMs)
	}
	if stats.SubmitWaitMeanMs != 3.0 {
		t.Errorf("single-sample mean = %g, want 3", stats.SubmitWaitMeanMs)
	}
}
