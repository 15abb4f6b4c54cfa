// Package telemetry tracks frame timing and export progress statistics.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one loop iteration.
const (
	PhaseUpdate  = "update"
	PhaseDraw    = "draw"
	PhaseCapture = "capture"
	PhaseSubmit  = "submit"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
}

// NewPerfCollector creates a performance collector averaging over
// windowSize ticks (e.g. 60 for one second at 60 fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new loop iteration.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.phaseStart = p.tickStart
	p.currentPhases = make(map[string]time.Duration)
}

// EndPhase records the time since the previous phase boundary under
// the given name.
func (p *PerfCollector) EndPhase(name string) {
	now := time.Now()
	p.currentPhases[name] += now.Sub(p.phaseStart)
	p.phaseStart = now
}

// EndTick finalizes the current iteration's sample.
func (p *PerfCollector) EndTick() {
	p.samples[p.writeIndex] = PerfSample{
		TickDuration: time.Since(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats summarizes the rolling window.
type PerfStats struct {
	AvgTickDuration time.Duration
	TicksPerSecond  float64
	AvgPhases       map[string]time.Duration
}

// Stats computes averages over the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{AvgPhases: map[string]time.Duration{}}
	}

	var total time.Duration
	phaseTotals := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		for name, d := range s.Phases {
			phaseTotals[name] += d
		}
	}

	avg := total / time.Duration(p.sampleCount)
	avgPhases := make(map[string]time.Duration, len(phaseTotals))
	for name, d := range phaseTotals {
		avgPhases[name] = d / time.Duration(p.sampleCount)
	}

	tps := 0.0
	if avg > 0 {
		tps = float64(time.Second) / float64(avg)
	}
	return PerfStats{
		AvgTickDuration: avg,
		TicksPerSecond:  tps,
		AvgPhases:       avgPhases,
	}
}

// LogStats emits the current window averages via slog.
func (p *PerfCollector) LogStats(tick int) {
	stats := p.Stats()
	args := []any{
		"tick", tick,
		"avg_tick", stats.AvgTickDuration.Round(time.Microsecond).String(),
		"tps", stats.TicksPerSecond,
	}
	for name, d := range stats.AvgPhases {
		args = append(args, "phase_"+name, d.Round(time.Microsecond).String())
	}
	slog.Debug("perf", args...)
}
