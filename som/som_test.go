package som

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func testConfig() Config {
	return Config{
		Width:     20,
		Height:    20,
		Dim:       3,
		Sigma:     3.0,
		LearnRate: 0.5,
		Seed:      42,
	}
}

func TestSeededInitDeterministic(t *testing.T) {
	a := New(testConfig())
	b := New(testConfig())

	wa, wb := a.Weights(), b.Weights()
	for i := range wa {
		for d := range wa[i] {
			if wa[i][d] != wb[i][d] {
				t.Fatalf("cell %d dim %d differs: %v vs %v", i, d, wa[i][d], wb[i][d])
			}
			if wa[i][d] < 0 || wa[i][d] >= 1 {
				t.Fatalf("cell %d dim %d out of [0,1): %v", i, d, wa[i][d])
			}
		}
	}
}

func TestReplayDeterminism(t *testing.T) {
	vectors := [][]float64{
		{0.1, 0.9, 0.3},
		{0.8, 0.2, 0.5},
		{0.4, 0.4, 0.9},
		{0.1, 0.9, 0.3},
	}

	a := New(testConfig())
	b := New(testConfig())

	for _, v := range vectors {
		a.TrainOne(v)
	}
	for _, v := range vectors {
		b.TrainOne(v)
	}

	wa, wb := a.Weights(), b.Weights()
	for i := range wa {
		for d := range wa[i] {
			if wa[i][d] != wb[i][d] {
				t.Fatalf("replay diverged at cell %d dim %d: %v vs %v",
					i, d, wa[i][d], wb[i][d])
			}
		}
	}
}

func TestBMUTieBreaksRowMajor(t *testing.T) {
	m := New(Config{Width: 4, Height: 4, Dim: 2, Sigma: 1, LearnRate: 0.1, Seed: 1})

	// Force an exact tie between two cells.
	weights := m.Weights()
	for i := range weights {
		weights[i] = []float64{float64(i), float64(i)}
	}
	weights[5] = []float64{0.5, 0.5}
	weights[9] = []float64{0.5, 0.5}
	m.SetWeights(weights)

	if got := m.BMU([]float64{0.5, 0.5}); got != 5 {
		t.Errorf("BMU = %d, want lowest tied index 5", got)
	}
}

func TestTrainOnePullsBMUTowardInput(t *testing.T) {
	m := New(testConfig())
	v := []float64{0.5, 0.5, 0.5}

	before := m.Weights()
	bmu := m.BMU(v)
	distBefore := floats.Distance(v, before[bmu], 2)

	m.TrainOne(v)

	after := m.Weights()
	distAfter := floats.Distance(v, after[bmu], 2)

	if distAfter >= distBefore {
		t.Errorf("BMU distance did not shrink: %v -> %v", distBefore, distAfter)
	}
}

func TestTrainOneIsNeverANoOp(t *testing.T) {
	m := New(testConfig())
	v := []float64{0.9, 0.1, 0.4}

	m.TrainOne(v)
	first := m.Weights()

	m.TrainOne(v)
	second := m.Weights()

	moved := false
	for i := range first {
		for d := range first[i] {
			if first[i][d] != second[i][d] {
				moved = true
			}
		}
	}

	if !moved {
		t.Error("second TrainOne with the same vector changed nothing")
	}
}

func TestNeighborhoodDecaysWithDistance(t *testing.T) {
	cfg := testConfig()
	m := New(cfg)
	v := []float64{0.5, 0.5, 0.5}

	before := m.Weights()
	bmu := m.BMU(v)
	m.TrainOne(v)
	after := m.Weights()

	bmuRow, bmuCol := bmu/cfg.Width, bmu%cfg.Width

	// A far corner must move strictly less than the BMU itself.
	far := 0
	farDist := -1.0
	for i := range before {
		row, col := i/cfg.Width, i%cfg.Width
		d := math.Hypot(float64(row-bmuRow), float64(col-bmuCol))
		if d > farDist {
			far, farDist = i, d
		}
	}

	bmuMove := floats.Distance(before[bmu], after[bmu], 2)
	farMove := floats.Distance(before[far], after[far], 2)

	if farMove >= bmuMove {
		t.Errorf("far cell moved %v, BMU moved %v", farMove, bmuMove)
	}
}

func TestWeightsIsDeepCopy(t *testing.T) {
	m := New(testConfig())

	snap := m.Weights()
	orig := snap[0][0]
	snap[0][0] = math.Inf(1)

	if m.Weights()[0][0] != orig {
		t.Error("mutating a snapshot leaked into the live map")
	}
}

func BenchmarkTrainOne(b *testing.B) {
	m := New(testConfig())
	v := []float64{0.3, 0.6, 0.1}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.TrainOne(v)
	}
}
