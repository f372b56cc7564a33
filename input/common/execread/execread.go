// Package execread provides a capture session that reads little-endian
// float32 samples from a command's stdout.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/auricle/cortex/input"
	"github.com/pkg/errors"
)

// Session reads fixed-size mono sample blocks from a spawned command.
type Session struct {
	argv []string
	cfg  input.SessionConfig

	cmd *exec.Cmd
	out *os.File

	raw   []byte
	block []input.Sample

	// blockDuration is the wall time one block of audio represents.
	// Reads that take several multiples of it are assumed stuck.
	blockDuration time.Duration
}

// NewSession creates a session that will run argv. It never returns an
// error.
func NewSession(argv []string, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("execread: argv has no arg0")
	}

	return &Session{
		argv:  argv,
		cfg:   cfg,
		raw:   make([]byte, cfg.SampleSize*4),
		block: make([]input.Sample, cfg.SampleSize),
		blockDuration: time.Duration(
			float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second)),
	}
}

// Start spawns the command and wires up its stdout pipe.
func (s *Session) Start(ctx context.Context) error {
	if s.cmd != nil {
		return errors.New("execread: session already started")
	}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	// We need o as an *os.File for SetReadDeadline.
	of, ok := o.(*os.File)
	if !ok {
		return errors.New("stdout pipe is not an *os.File (bug)")
	}

	if err := cmd.Start(); err != nil {
		o.Close()
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	s.cmd = cmd
	s.out = of

	return nil
}

// Read blocks until one full block of samples arrives. A missed
// deadline surfaces as input.ErrReadTimedOut; a closed pipe surfaces
// as io.EOF.
func (s *Session) Read(ctx context.Context) ([]input.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The deadline is generous because the process may briefly stall
	// while discarding overflowed audio.
	deadline := time.Now().Add(s.blockDuration * 6)
	if err := s.out.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "failed to set read deadline")
	}

	if _, err := io.ReadFull(s.out, s.raw); err != nil {
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil, io.EOF
		case errors.Is(err, os.ErrDeadlineExceeded):
			return nil, input.ErrReadTimedOut
		default:
			return nil, err
		}
	}

	for i := range s.block {
		bits := binary.LittleEndian.Uint32(s.raw[i*4:])
		s.block[i] = input.Sample(math.Float32frombits(bits))
	}

	return s.block, nil
}

// Stop closes the pipe and reaps the command.
func (s *Session) Stop() error {
	if s.cmd == nil {
		return nil
	}

	s.out.Close()

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}

	// The error here is almost always "killed"; the session is done
	// either way.
	s.cmd.Wait()
	s.cmd = nil

	return nil
}
