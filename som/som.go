// Package som implements a fixed-topology self-organizing map trained
// strictly online, one feature vector at a time.
//
// Some notes:
//
// Kohonen, T. (1982). Self-organized formation of topologically correct
// feature maps. Biological Cybernetics 43.
package som

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Config fixes the map topology and hyperparameters for the lifetime of
// the map. Sigma and LearnRate are constant; there is no decay
// schedule.
type Config struct {
	Width  int // grid columns
	Height int // grid rows
	Dim    int // weight vector dimension

	Sigma     float64 // gaussian neighborhood radius, in grid units
	LearnRate float64 // per-step learning rate

	Seed int64 // weight initialization seed
}

// Map is a Height×Width grid of weight vectors. It is not internally
// synchronized: exactly one goroutine may train at a time, and the
// owner serializes training against Weights snapshots.
type Map struct {
	cfg Config

	// weights is row-major: cell (row, col) lives at row*Width+col.
	weights [][]float64

	// scratch holds v-w during an update to avoid per-cell allocation.
	scratch []float64
}

// New creates a map with weights seeded uniformly in [0, 1), covering
// the same range the normalized features occupy. The same seed always
// produces the same initial grid.
func New(cfg Config) *Map {
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Dim < 1 {
		panic("som: non-positive map dimensions")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	weights := make([][]float64, cfg.Width*cfg.Height)
	for i := range weights {
		w := make([]float64, cfg.Dim)
		for d := range w {
			w[d] = rng.Float64()
		}
		weights[i] = w
	}

	return &Map{
		cfg:     cfg,
		weights: weights,
		scratch: make([]float64, cfg.Dim),
	}
}

// Size returns the grid width and height.
func (m *Map) Size() (w, h int) {
	return m.cfg.Width, m.cfg.Height
}

// Dim returns the weight vector dimension.
func (m *Map) Dim() int {
	return m.cfg.Dim
}

// BMU returns the row-major index of the best-matching unit: the cell
// whose weight vector is nearest the input in Euclidean distance. Ties
// break toward the lowest index.
func (m *Map) BMU(v []float64) int {
	best := 0
	bestDist := floats.Distance(v, m.weights[0], 2)

	for i := 1; i < len(m.weights); i++ {
		if d := floats.Distance(v, m.weights[i], 2); d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}

// TrainOne performs a single online update: find the BMU, then pull
// every cell toward v weighted by a gaussian of its grid distance to
// the BMU. Each call is one full update step; training the same vector
// twice moves the map twice.
func (m *Map) TrainOne(v []float64) {
	if len(v) != m.cfg.Dim {
		panic("som: input dimension mismatch")
	}

	bmu := m.BMU(v)
	bmuRow, bmuCol := bmu/m.cfg.Width, bmu%m.cfg.Width

	twoSigmaSq := 2 * m.cfg.Sigma * m.cfg.Sigma

	for i, w := range m.weights {
		row, col := i/m.cfg.Width, i%m.cfg.Width
		dr, dc := float64(row-bmuRow), float64(col-bmuCol)

		influence := math.Exp(-(dr*dr + dc*dc) / twoSigmaSq)
		step := m.cfg.LearnRate * influence

		floats.SubTo(m.scratch, v, w)
		floats.AddScaled(w, step, m.scratch)
	}
}

// Weights returns a deep copy of the grid in row-major order. The copy
// shares no memory with the live map, so callers may hold it while
// training continues.
func (m *Map) Weights() [][]float64 {
	out := make([][]float64, len(m.weights))
	for i, w := range m.weights {
		c := make([]float64, len(w))
		copy(c, w)
		out[i] = c
	}
	return out
}

// SetWeights overwrites the grid from a row-major copy of the same
// shape. Used to replay or restore a saved map.
func (m *Map) SetWeights(weights [][]float64) {
	if len(weights) != len(m.weights) {
		panic("som: grid size mismatch")
	}
	for i, w := range weights {
		if len(w) != m.cfg.Dim {
			panic("som: weight dimension mismatch")
		}
		copy(m.weights[i], w)
	}
}
