package cortex

import (
	"github.com/auricle/cortex/dsp"
)

// The snapshot surface is what external renderers and exporters see.
// Every method copies under the shared read lock and holds it only for
// the duration of the copy, so readers never stall the trainer beyond
// one critical section.

// Snapshot is a consistent point-in-time view of the trained state:
// the history always has exactly Steps entries and the weights reflect
// exactly those training steps.
type Snapshot struct {
	Weights [][]float64
	History []dsp.FeatureVector
	Steps   uint64
}

// TakeSnapshot copies weights, history and step counter under a single
// read lock.
func (c *Cortex) TakeSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := make([]dsp.FeatureVector, len(c.history))
	copy(history, c.history)

	return Snapshot{
		Weights: c.som.Weights(),
		History: history,
		Steps:   c.steps,
	}
}

// CurrentWeights returns a deep copy of the map grid in row-major
// order.
func (c *Cortex) CurrentWeights() [][]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.som.Weights()
}

// MapSize returns the grid width and height.
func (c *Cortex) MapSize() (w, h int) {
	return c.som.Size()
}

// TrainedSteps returns the number of completed training steps.
func (c *Cortex) TrainedSteps() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.steps
}

// HistoryTail returns a copy of the most recent n feature vectors in
// training order. Passing n larger than the history returns all of it.
func (c *Cortex) HistoryTail(n int) []dsp.FeatureVector {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n > len(c.history) {
		n = len(c.history)
	}
	if n < 1 {
		return nil
	}

	out := make([]dsp.FeatureVector, n)
	copy(out, c.history[len(c.history)-n:])
	return out
}

// HistoryLen returns the total number of recorded feature vectors.
// Always equal to TrainedSteps under the shared lock.
func (c *Cortex) HistoryLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// Waveform returns a copy of up to the last n raw samples for display
// use. The ring synchronizes internally, so this never touches the
// training lock.
func (c *Cortex) Waveform(n int) []float64 {
	return c.ring.Tail(n)
}
