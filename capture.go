package cortex

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/auricle/cortex/input"

	"github.com/pkg/errors"
)

// capture pulls fixed-size blocks from the session and pushes them
// into the ring until cancellation or end of stream. Read failures on
// an open session are transient: they are logged and the loop keeps
// going, so one bad read never costs the run.
func (c *Cortex) capture(ctx context.Context, session input.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		block, err := session.Read(ctx)

		switch {
		case err == nil:
			c.ring.Push(block)

		case ctx.Err() != nil:
			return

		case errors.Is(err, io.EOF):
			log.Println("input stream ended")
			c.cancel()
			return

		case errors.Is(err, input.ErrReadTimedOut):
			log.Println("warning: audio read timed out (ignored)")

		default:
			log.Printf("warning: audio read error (ignored): %v", err)
			// Avoid hot-looping against a persistently failing device.
			time.Sleep(10 * time.Millisecond)
		}
	}
}
