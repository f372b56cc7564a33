// Package dsp reduces fixed-length sample windows to compact auditory
// feature vectors.
//
// Some notes:
//
// https://dlbeer.co.nz/articles/fftvis.html
// https://en.wikipedia.org/wiki/Tonotopy
package dsp

import (
	"math"

	"github.com/auricle/cortex/fft"
)

// FeatureDim is the dimension of every feature vector.
const FeatureDim = 3

// bandEdges are the dividing frequencies of the analysis bands, in Hz.
var bandEdges = []float64{
	50.0,
	200.0,
	800.0,
	3200.0,
	10000.0,
}

// FeatureVector is one window reduced to {low-band log-energy, mid-band
// log-energy, mean absolute intensity}.
type FeatureVector [FeatureDim]float64

// Slice returns the vector as a float64 slice.
func (v FeatureVector) Slice() []float64 {
	return []float64{v[0], v[1], v[2]}
}

// Finite reports whether every component is a usable number. Training
// on NaN or Inf would corrupt the map permanently, so callers must
// check before handing a vector to the trainer.
func (v FeatureVector) Finite() bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ExtractorConfig holds the sampling parameters the extractor is fixed
// to for the lifetime of the run.
type ExtractorConfig struct {
	SampleRate float64 // audio sample rate
	SampleSize int     // number of samples per window
}

// Extractor converts sample windows into feature vectors. Extraction is
// pure and deterministic; the scratch buffers make a single Extractor
// unsafe for concurrent use, matching the one-consumer pipeline.
type Extractor struct {
	cfg ExtractorConfig

	plan     *fft.Plan
	input    []float64
	spectrum []complex128

	// bands[i] is the half-open FFT bin range [floor, ceil) mapped to
	// the band between bandEdges[i] and bandEdges[i+1]. An empty range
	// means the band has no bins at this rate/size and sums to zero.
	bands []binRange
}

type binRange struct {
	floor int
	ceil  int
}

// NewExtractor builds an extractor for the given sampling parameters.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	e := &Extractor{
		cfg:      cfg,
		input:    make([]float64, cfg.SampleSize),
		spectrum: make([]complex128, cfg.SampleSize/2+1),
		bands:    make([]binRange, len(bandEdges)-1),
	}

	fft.InitPlan(&e.plan, e.input, e.spectrum)

	// Bin i sits at frequency i*rate/size on the non-negative axis.
	hzPerBin := cfg.SampleRate / float64(cfg.SampleSize)
	binCount := len(e.spectrum)

	for i := range e.bands {
		floor := int(math.Ceil(bandEdges[i] / hzPerBin))
		ceil := int(math.Ceil(bandEdges[i+1] / hzPerBin))

		if floor > binCount {
			floor = binCount
		}
		if ceil > binCount {
			ceil = binCount
		}

		e.bands[i] = binRange{floor: floor, ceil: ceil}
	}

	return e
}

// Extract reduces one window of exactly SampleSize samples to a feature
// vector. Band energies are magnitude sums compressed with log(1+x),
// so every component is finite and non-negative for any real input.
func (e *Extractor) Extract(window []float64) FeatureVector {
	if len(window) != e.cfg.SampleSize {
		panic("dsp: window length does not match extractor size")
	}

	copy(e.input, window)
	e.plan.Execute()

	low := e.bandMagnitude(e.bands[0])
	mid := e.bandMagnitude(e.bands[2])

	intensity := 0.0
	for _, s := range window {
		intensity += math.Abs(s)
	}
	intensity /= float64(len(window))

	return FeatureVector{
		math.Log1p(low),
		math.Log1p(mid),
		intensity,
	}
}

// bandMagnitude sums spectral magnitude over the band's bin range.
func (e *Extractor) bandMagnitude(r binRange) float64 {
	mag := 0.0
	for _, c := range e.spectrum[r.floor:r.ceil] {
		mag += math.Hypot(real(c), imag(c))
	}
	return mag
}
