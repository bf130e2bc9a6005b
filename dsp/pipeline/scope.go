package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Scope is a single-slot hand-off of the most recent output window from
// the audio thread to a renderer.
//
// The audio thread only ever tries the lock. When the renderer holds it,
// that window is skipped. A window the renderer does not collect before
// the next one arrives is overwritten.
type Scope struct {
	mu    sync.Mutex
	buf   []float32
	ready bool

	published atomic.Uint64
	skipped   atomic.Uint64
}

func newScope(size int) *Scope {
	return &Scope{buf: make([]float32, size)}
}

// Size returns the window length in samples.
func (s *Scope) Size() int { return len(s.buf) }

// Published returns how many windows the audio thread handed over.
func (s *Scope) Published() uint64 { return s.published.Load() }

// Skipped returns how many windows were dropped because the renderer was
// copying at the time.
func (s *Scope) Skipped() uint64 { return s.skipped.Load() }

// publish copies the ring, oldest sample at start, into the slot. It never
// blocks.
func (s *Scope) publish(ring []float32, start int) {
	if !s.mu.TryLock() {
		s.skipped.Add(1)
		return
	}

	n := copy(s.buf, ring[start:])
	copy(s.buf[n:], ring[:start])
	s.ready = true
	s.mu.Unlock()

	s.published.Add(1)
}

// Read copies the pending window into dst and clears the ready flag. It
// reports false, copying nothing, when no new window arrived since the
// last Read.
func (s *Scope) Read(dst []float32) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return 0, false
	}

	s.ready = false

	return core.CopyInto(dst, s.buf), true
}
