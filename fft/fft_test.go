package fft

import (
	"math"
	"testing"
)

// A pure tone should concentrate its energy in the single matching bin.
func TestPlanPureTone(t *testing.T) {
	const (
		n    = 2048
		rate = 44100.0
		bin  = 32 // tone placed exactly on a bin center
	)

	freq := float64(bin) * rate / n

	input := make([]float64, n)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}

	var plan *Plan
	InitPlan(&plan, input, make([]complex128, n/2+1))
	plan.Execute()

	peak, peakIdx := 0.0, -1
	for i, c := range plan.Output {
		mag := math.Hypot(real(c), imag(c))
		if mag > peak {
			peak, peakIdx = mag, i
		}
	}

	if peakIdx != bin {
		t.Errorf("peak at bin %d, want %d", peakIdx, bin)
	}
}

func TestPlanOutputLength(t *testing.T) {
	input := make([]float64, 512)
	output := make([]complex128, 512/2+1)

	var plan *Plan
	InitPlan(&plan, input, output)
	plan.Execute()

	for i, c := range output {
		if real(c) != 0 || imag(c) != 0 {
			t.Errorf("bin %d: silence produced non-zero coefficient %v", i, c)
		}
	}
}

const numReals = 44100

func generateReals() []float64 {
	input := make([]float64, numReals)

	c := 3.1
	for i := range input {
		c += 0.3
		input[i] = 2*c - c*c
	}

	return input
}

func Benchmark(b *testing.B) {
	reals := generateReals()
	cmplx := make([]complex128, len(reals)/2+1)

	var plan *Plan
	InitPlan(&plan, reals, cmplx)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		plan.Execute()
	}
}
