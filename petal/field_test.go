package petal

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestMixtureOfSinesLength(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seq := MixtureOfSines(rng, 600, 30, 0.04, 0.002)
	if len(seq) != 600 {
		t.Fatalf("expected sequence length 600, got %d", len(seq))
	}
}

func TestMixtureOfSinesSeamlessLoop(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	period := 240
	low, high := 0.04, 0.002
	nFreq := 30
	seq := MixtureOfSines(rng, period, nFreq, low, high)

	// Each sinusoid changes by at most cap_k * 2*pi*k/period between
	// adjacent samples. The formula repeats every period samples, so
	// the step from the last sample back to the first obeys the same
	// bound: no jump at the loop point.
	var stepBound float64
	for k := 0; k < nFreq; k++ {
		capK := low - (low-high)*float64(k)/float64(nFreq-1)
		stepBound += capK * 2 * math.Pi * float64(k) / float64(period)
	}

	wrapStep := math.Abs(seq[0] - seq[period-1])
	if wrapStep > stepBound {
		t.Fatalf("loop point jumps by %g, beyond smoothness bound %g", wrapStep, stepBound)
	}
	for i := 1; i < period; i++ {
		if step := math.Abs(seq[i] - seq[i-1]); step > stepBound {
			t.Fatalf("step at %d is %g, beyond smoothness bound %g", i, step, stepBound)
		}
	}
}

func TestMixtureOfSinesAmplitudeBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	low, high := 0.04, 0.002
	nFreq := 30
	seq := MixtureOfSines(rng, 600, nFreq, low, high)

	// Worst case: every amplitude lands at its cap and every sinusoid
	// peaks simultaneously. The caps interpolate linearly from low to
	// high, so their sum bounds the signal.
	var bound float64
	for k := 0; k < nFreq; k++ {
		bound += low - (low-high)*float64(k)/float64(nFreq-1)
	}
	for i, v := range seq {
		if math.Abs(v) > bound {
			t.Fatalf("sample %d is %g, beyond amplitude bound %g", i, v, bound)
		}
	}
}

func TestMixtureOfSinesSingleFrequency(t *testing.T) {
	// With one frequency there is no interpolation range; the single
	// amplitude cap is the low-frequency cap.
	rng := rand.New(rand.NewPCG(5, 5))
	seq := MixtureOfSines(rng, 100, 1, 0.5, 0.001)
	for i, v := range seq {
		if math.Abs(v) > 0.5 {
			t.Fatalf("sample %d is %g, beyond single-frequency cap 0.5", i, v)
		}
	}
}

func TestFieldAtWrapsModuloPeriod(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 37))
	f := NewField(rng, 120, 10, 0.04, 0.002)

	if f.Period() != 120 {
		t.Fatalf("expected period 120, got %d", f.Period())
	}
	for _, tick := range []int{0, 1, 59, 119} {
		a := f.At(tick)
		b := f.At(tick + 120)
		if a != b {
			t.Errorf("field at tick %d differs from tick %d: %v vs %v", tick, tick+120, a, b)
		}
	}
}

func TestFieldDeterministicForSeed(t *testing.T) {
	a := NewField(rand.New(rand.NewPCG(42, 0)), 60, 5, 0.04, 0.002)
	b := NewField(rand.New(rand.NewPCG(42, 0)), 60, 5, 0.04, 0.002)
	for tick := 0; tick < 60; tick++ {
		if a.At(tick) != b.At(tick) {
			t.Fatalf("same seed produced different fields at tick %d", tick)
		}
	}
}

func TestZeroField(t *testing.T) {
	f := ZeroField(10)
	for tick := 0; tick < 25; tick++ {
		if v := f.At(tick); v.X != 0 || v.Y != 0 || v.Z != 0 {
			t.Fatalf("zero field produced displacement %v at tick %d", v, tick)
		}
	}
}
