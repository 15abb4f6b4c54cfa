package petal

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// MixtureOfSines returns one periodic displacement sequence of the
// given length, built as a sum of nFreq sinusoids with random
// amplitudes and phases:
//
//	amp_k * sin(2*pi*k*i/period + phase_k)   k = 0..nFreq-1
//
// amp_k is uniform in [0, cap_k] where cap_k interpolates linearly
// from lowFreqMax at k=0 down to highFreqMax at k=nFreq-1; phase_k is
// uniform in [0, 2*pi). The formula evaluated at index i equals the
// formula at i+period, so indexing the result modulo period yields a
// seamless loop.
func MixtureOfSines(rng *rand.Rand, period, nFreq int, lowFreqMax, highFreqMax float64) []float64 {
	amps := make([]float64, nFreq)
	phases := make([]float64, nFreq)
	for k := range amps {
		amplitudeCap := lowFreqMax
		if nFreq > 1 {
			amplitudeCap = lowFreqMax - (lowFreqMax-highFreqMax)*float64(k)/float64(nFreq-1)
		}
		amps[k] = amplitudeCap * rng.Float64()
		phases[k] = 2 * math.Pi * rng.Float64()
	}

	seq := make([]float64, period)
	for i := range seq {
		var v float64
		for k := range amps {
			v += amps[k] * math.Sin(2*math.Pi*float64(k)*float64(i)/float64(period)+phases[k])
		}
		seq[i] = v
	}
	return seq
}

// Field holds the three per-axis displacement sequences shared
// read-only by all petals. The three axes are generated independently
// and are decorrelated.
type Field struct {
	x, y, z []float64
}

// NewField generates a motion field of the given period. The three
// axis sequences consume the rng in x, y, z order, so a fixed seed
// reproduces the same field.
func NewField(rng *rand.Rand, period, nFreq int, lowFreqMax, highFreqMax float64) Field {
	return Field{
		x: MixtureOfSines(rng, period, nFreq, lowFreqMax, highFreqMax),
		y: MixtureOfSines(rng, period, nFreq, lowFreqMax, highFreqMax),
		z: MixtureOfSines(rng, period, nFreq, lowFreqMax, highFreqMax),
	}
}

// ZeroField returns a field of the given period with no displacement.
func ZeroField(period int) Field {
	return Field{
		x: make([]float64, period),
		y: make([]float64, period),
		z: make([]float64, period),
	}
}

// Period returns the field length in frames.
func (f Field) Period() int { return len(f.x) }

// At returns the displacement applied at the given tick, indexing the
// sequences at tick mod period.
func (f Field) At(tick int) r3.Vec {
	i := tick % len(f.x)
	return r3.Vec{X: f.x[i], Y: f.y[i], Z: f.z[i]}
}
