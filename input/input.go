// Package input abstracts mono audio capture sources behind a backend
// registry.
package input

import "context"

// Sample is one audio amplitude reading. Devices deliver 32-bit floats
// in [-1, 1]; we widen to float64 at the boundary for the analysis
// code.
type Sample = float64

// SessionConfig describes one capture session. The rate, block size
// and device are fixed for the session's lifetime.
type SessionConfig struct {
	Device     Device  // device to open
	SampleRate float64 // sample rate in Hz
	SampleSize int     // samples per Read block
}

// Device is a backend-specific device handle. String returns the name
// shown by list-devices.
type Device interface {
	String() string
}

// Session is one open capture stream.
//
// Read returns exactly one block of SampleSize mono samples. It blocks
// until a block is available, the context is canceled, or the read
// deadline passes. Deadline expiry surfaces as ErrReadTimedOut, which
// callers treat as transient. The returned slice is owned by the
// session and overwritten by the next Read; callers must copy what
// they keep.
type Session interface {
	Start(ctx context.Context) error
	Read(ctx context.Context) ([]Sample, error)
	Stop() error
}
