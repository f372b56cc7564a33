// Package ring provides a bounded FIFO buffer of audio samples shared
// between the capture and trainer loops.
package ring

import "sync"

// Buffer is a fixed-capacity sample queue. Writers never block: when a
// push would exceed capacity, the oldest samples are evicted first.
// Safe for one concurrent writer, one consumer, and any number of
// non-destructive Tail readers.
type Buffer struct {
	mu     sync.Mutex
	buf    []float64
	head   int // index of the oldest sample
	length int
}

// NewBuffer returns a buffer holding at most capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		panic("ring: capacity must be positive")
	}

	return &Buffer{
		buf: make([]float64, capacity),
	}
}

// Push appends samples, evicting the oldest ones if capacity would be
// exceeded. Pushing more samples than the buffer can hold keeps only
// the newest capacity samples.
func (b *Buffer) Push(samples []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.buf)

	if len(samples) >= capacity {
		// Only the tail of the input survives.
		copy(b.buf, samples[len(samples)-capacity:])
		b.head = 0
		b.length = capacity
		return
	}

	if over := b.length + len(samples) - capacity; over > 0 {
		b.head = (b.head + over) % capacity
		b.length -= over
	}

	tail := (b.head + b.length) % capacity
	n := copy(b.buf[tail:], samples)
	copy(b.buf, samples[n:])
	b.length += len(samples)
}

// PopWindow removes and returns exactly n samples in FIFO order. If
// fewer than n samples are buffered it returns (nil, false) and leaves
// the buffer untouched.
func (b *Buffer) PopWindow(n int) ([]float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n < 1 || b.length < n {
		return nil, false
	}

	out := make([]float64, n)
	b.copyFrom(b.head, out)

	b.head = (b.head + n) % len(b.buf)
	b.length -= n

	return out, true
}

// Tail returns a copy of up to the last n samples without removing
// them. Used by waveform snapshot readers.
func (b *Buffer) Tail(n int) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.length {
		n = b.length
	}
	if n < 1 {
		return nil
	}

	out := make([]float64, n)
	start := (b.head + b.length - n) % len(b.buf)
	b.copyFrom(start, out)

	return out
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.length
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// copyFrom fills dst with samples starting at index start, wrapping
// around the backing array. Caller holds the lock.
func (b *Buffer) copyFrom(start int, dst []float64) {
	n := copy(dst, b.buf[start:])
	copy(dst[n:], b.buf)
}
