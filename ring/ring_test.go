package ring

import (
	"sync"
	"testing"
)

func seq(start, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(start + i)
	}
	return out
}

func TestPushPopFIFO(t *testing.T) {
	b := NewBuffer(16)

	b.Push(seq(0, 4))
	b.Push(seq(4, 4))

	win, ok := b.PopWindow(8)
	if !ok {
		t.Fatal("expected a full window")
	}

	for i, v := range win {
		if v != float64(i) {
			t.Fatalf("win[%d] = %v, want %v", i, v, i)
		}
	}

	if b.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", b.Len())
	}
}

func TestPopWindowAllOrNothing(t *testing.T) {
	b := NewBuffer(16)
	b.Push(seq(0, 5))

	if _, ok := b.PopWindow(6); ok {
		t.Fatal("pop succeeded with too few samples")
	}

	if b.Len() != 5 {
		t.Fatalf("Len() = %d after failed pop, want 5", b.Len())
	}

	win, ok := b.PopWindow(5)
	if !ok || len(win) != 5 {
		t.Fatalf("pop returned (%d, %v), want (5, true)", len(win), ok)
	}
}

func TestDropOldestEviction(t *testing.T) {
	b := NewBuffer(8)

	// 12 samples through an 8-slot buffer: 0..3 must be evicted.
	b.Push(seq(0, 6))
	b.Push(seq(6, 6))

	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want capacity 8", b.Len())
	}

	win, _ := b.PopWindow(8)
	for i, v := range win {
		if v != float64(i+4) {
			t.Fatalf("win[%d] = %v, want %v", i, v, i+4)
		}
	}
}

func TestPushLargerThanCapacity(t *testing.T) {
	b := NewBuffer(4)
	b.Push(seq(0, 11))

	win, _ := b.PopWindow(4)
	for i, v := range win {
		if v != float64(i+7) {
			t.Fatalf("win[%d] = %v, want %v", i, v, i+7)
		}
	}
}

func TestNeverExceedsCapacity(t *testing.T) {
	b := NewBuffer(32)

	for i := 0; i < 100; i++ {
		b.Push(seq(i*7, 7))
		if b.Len() > b.Cap() {
			t.Fatalf("Len() = %d exceeds Cap() = %d", b.Len(), b.Cap())
		}
	}
}

func TestTailNonDestructive(t *testing.T) {
	b := NewBuffer(16)
	b.Push(seq(0, 10))

	tail := b.Tail(4)
	if len(tail) != 4 {
		t.Fatalf("Tail(4) returned %d samples", len(tail))
	}
	for i, v := range tail {
		if v != float64(i+6) {
			t.Fatalf("tail[%d] = %v, want %v", i, v, i+6)
		}
	}

	if b.Len() != 10 {
		t.Errorf("Tail mutated buffer: Len() = %d, want 10", b.Len())
	}

	// More than available returns only what exists.
	if got := b.Tail(64); len(got) != 10 {
		t.Errorf("Tail(64) returned %d samples, want 10", len(got))
	}
}

func TestTailWrapAround(t *testing.T) {
	b := NewBuffer(8)
	b.Push(seq(0, 8))
	b.PopWindow(5)
	b.Push(seq(8, 4)) // wraps

	tail := b.Tail(7)
	for i, v := range tail {
		if v != float64(i+5) {
			t.Fatalf("tail[%d] = %v, want %v", i, v, i+5)
		}
	}
}

func TestConcurrentPushPopTail(t *testing.T) {
	b := NewBuffer(1 << 12)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Push(seq(i*64, 64))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.PopWindow(64)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Tail(128)
		}
	}()

	wg.Wait()

	if b.Len() > b.Cap() {
		t.Fatalf("Len() = %d exceeds Cap() = %d", b.Len(), b.Cap())
	}
}

func BenchmarkPushPop(b *testing.B) {
	buf := NewBuffer(1 << 14)
	block := seq(0, 2048)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf.Push(block)
		buf.PopWindow(2048)
	}
}
