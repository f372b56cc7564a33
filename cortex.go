// Package cortex wires live audio capture into an online-trained
// self-organizing map: capture fills a bounded sample ring, the trainer
// reduces fixed windows to feature vectors and folds them into the map
// one at a time, and snapshot readers observe the evolving state
// without ever blocking either loop.
package cortex

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/auricle/cortex/dsp"
	"github.com/auricle/cortex/input"
	"github.com/auricle/cortex/ring"
	"github.com/auricle/cortex/som"

	"github.com/pkg/errors"
)

// defaultPollInterval bounds how long the trainer sleeps when no full
// window is buffered. It also bounds how long a stop request can go
// unobserved by the trainer.
const defaultPollInterval = 5 * time.Millisecond

// Config fixes the pipeline parameters for the lifetime of a Cortex.
type Config struct {
	SampleRate     float64 // audio sample rate in Hz
	SampleSize     int     // samples per training window
	DisplaySeconds int     // seconds of raw audio retained for waveform readers

	MapWidth  int     // SOM grid columns
	MapHeight int     // SOM grid rows
	Sigma     float64 // SOM neighborhood radius
	LearnRate float64 // SOM learning rate
	Seed      int64   // SOM weight init seed

	PollInterval time.Duration // trainer poll interval; 0 means the default
}

// Cortex owns all mutable pipeline state: the sample ring shared by the
// capture and trainer loops, the map, the feature history and the step
// counter. The map, history and counter are guarded by one lock so a
// reader never observes a history longer than the step count or a
// half-updated map.
type Cortex struct {
	cfg Config

	ring *ring.Buffer
	ext  *dsp.Extractor
	som  *som.Map

	mu      sync.RWMutex
	history []dsp.FeatureVector
	steps   uint64

	ctx    context.Context
	cancel context.CancelFunc

	running atomic.Bool
	failed  atomic.Bool
}

// New builds a Cortex. The cancellation signal is created here and
// lives until Run returns; RequestStop may be called at any point
// after New.
func New(cfg Config) *Cortex {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Cortex{
		cfg:  cfg,
		ring: ring.NewBuffer(int(cfg.SampleRate)*cfg.DisplaySeconds + cfg.SampleSize),
		ext: dsp.NewExtractor(dsp.ExtractorConfig{
			SampleRate: cfg.SampleRate,
			SampleSize: cfg.SampleSize,
		}),
		som: som.New(som.Config{
			Width:     cfg.MapWidth,
			Height:    cfg.MapHeight,
			Dim:       dsp.FeatureDim,
			Sigma:     cfg.Sigma,
			LearnRate: cfg.LearnRate,
			Seed:      cfg.Seed,
		}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run starts the capture session and drives both loops until the
// session ends or stop is requested. It returns a non-nil error only
// when the input device could not be started; errors after a
// successful open are handled inside the loops through the shared
// flags.
func (c *Cortex) Run(session input.Session) error {
	if err := session.Start(c.ctx); err != nil {
		c.failed.Store(true)
		c.cancel()
		return errors.Wrap(err, "failed to start input session")
	}

	c.running.Store(true)
	defer c.running.Store(false)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.capture(c.ctx, session)
	}()

	go func() {
		defer wg.Done()
		c.train(c.ctx)
	}()

	wg.Wait()

	if err := session.Stop(); err != nil {
		// The pipeline already shut down cleanly; a teardown failure
		// is not worth a dirty exit.
		log.Printf("warning: failed to stop input session: %v", err)
	}

	return nil
}

// RequestStop flips the one-way cancellation signal. Idempotent and
// callable from any goroutine; both loops observe it within one poll
// interval or read deadline.
func (c *Cortex) RequestStop() {
	c.cancel()
}

// Done is closed once stop has been requested or a fatal error
// occurred.
func (c *Cortex) Done() <-chan struct{} {
	return c.ctx.Done()
}

// IsRunning reports whether the loops are still alive. It turns false
// shortly after RequestStop, once both loops have exited.
func (c *Cortex) IsRunning() bool {
	return c.running.Load()
}

// Failed reports whether the pipeline stopped because of a fatal error
// (device open failure or a non-finite feature).
func (c *Cortex) Failed() bool {
	return c.failed.Load()
}
