package cortex

import (
	"context"
	"log"
	"time"
)

// train is the single consumer of the ring. Each full window is
// reduced to a feature vector outside the lock, then history append,
// map update and step increment happen under one critical section so
// snapshot readers always see the three agree.
func (c *Cortex) train(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		window, ok := c.ring.PopWindow(c.cfg.SampleSize)
		if !ok {
			// Polling wait, bounded so a stop request is observed
			// within one interval.
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.cfg.PollInterval):
			}
			continue
		}

		feat := c.ext.Extract(window)

		if !feat.Finite() {
			// Training on NaN would corrupt the map permanently, and a
			// non-finite feature means the extractor's contract broke.
			lo, hi := sampleRange(window)
			log.Printf("fatal: non-finite feature %v from window with sample range [%v, %v]",
				feat, lo, hi)
			c.failed.Store(true)
			c.cancel()
			return
		}

		c.mu.Lock()
		c.history = append(c.history, feat)
		c.som.TrainOne(feat.Slice())
		c.steps++
		c.mu.Unlock()
	}
}

// sampleRange returns the min and max sample of a window, for the
// fatal-feature diagnostic.
func sampleRange(window []float64) (lo, hi float64) {
	lo, hi = window[0], window[0]
	for _, s := range window[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi
}
