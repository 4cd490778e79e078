// Package audio plays a track and exposes the magnitudes of what is being
// played to the simulation.
package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
)

// Source supplies per-particle magnitudes for the audio hook.
type Source interface {
	Samples(dst []float64) []float64
}

// Constant is a Source that always yields a single fixed magnitude.
type Constant float64

// Samples implements Source.
func (c Constant) Samples(dst []float64) []float64 {
	return append(dst[:0], float64(c))
}

// Tap records the mono magnitude of every frame streamed through it into a
// ring buffer. The speaker goroutine writes; the frame loop reads copies.
type Tap struct {
	mu     sync.Mutex
	ring   []float64
	next   int
	filled bool
}

// NewTap creates a tap retaining the last size magnitudes.
func NewTap(size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{ring: make([]float64, size)}
}

// Record appends the magnitudes of samples.
func (t *Tap) Record(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range samples {
		t.ring[t.next] = math.Abs(s[0]+s[1]) / 2
		t.next++
		if t.next == len(t.ring) {
			t.next = 0
			t.filled = true
		}
	}
}

// Samples copies the retained magnitudes, oldest first, into dst.
func (t *Tap) Samples(dst []float64) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	dst = dst[:0]
	if t.filled {
		dst = append(dst, t.ring[t.next:]...)
	}
	return append(dst, t.ring[:t.next]...)
}

// Wrap returns a streamer that passes s through unchanged while recording it.
func (t *Tap) Wrap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		t.Record(samples[:n])
		return n, ok
	})
}
