package cortex

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/auricle/cortex/dsp"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// SaveWeights writes the current map grid to path as a NumPy array of
// shape (width*height, dim), row-major. Persistence reads a snapshot
// only; training is never paused.
func (c *Cortex) SaveWeights(path string) error {
	weights := c.CurrentWeights()

	data := make([]float64, 0, len(weights)*dsp.FeatureDim)
	for _, w := range weights {
		data = append(data, w...)
	}

	return writeMatrix(path, mat.NewDense(len(weights), dsp.FeatureDim, data))
}

// SaveHistory writes the accumulated feature history to path as a
// NumPy array of shape (steps, dim), in training order.
func (c *Cortex) SaveHistory(path string) error {
	history := c.HistoryTail(c.HistoryLen())
	if len(history) == 0 {
		return errors.New("no features collected")
	}

	data := make([]float64, 0, len(history)*dsp.FeatureDim)
	for _, v := range history {
		data = append(data, v.Slice()...)
	}

	return writeMatrix(path, mat.NewDense(len(history), dsp.FeatureDim, data))
}

// Autosave writes a timestamped weight snapshot into dir every
// interval until the cortex stops. Failures are logged and otherwise
// ignored; autosave never affects the pipeline.
func (c *Cortex) Autosave(dir string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
		}

		path := filepath.Join(dir, fmt.Sprintf("som_weights_%d.npy", time.Now().Unix()))
		if err := c.SaveWeights(path); err != nil {
			log.Printf("warning: autosave failed: %v", err)
		}
	}
}

func writeMatrix(path string, m *mat.Dense) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return f.Close()
}
