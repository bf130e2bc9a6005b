package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

// ErrEventQueueFull is returned when a key event cannot be queued because
// the audio side has not drained the previous ones yet.
var ErrEventQueueFull = errors.New("pipeline: key event queue full")

const (
	minCutoff      = 20.0
	maxCutoffRatio = 0.45
	minQ           = 0.1
	maxQ           = 40.0

	// cutoffStep and qStep are the multiplicative increments of the cutoff
	// and Q keys: a quarter octave and a quarter of a doubling.
	cutoffStep = 1.189207115002721
	qStep      = 1.189207115002721
)

// KeyEvent is a discrete envelope trigger.
type KeyEvent int

const (
	KeyOn KeyEvent = iota + 1
	KeyOff
)

func (e KeyEvent) String() string {
	switch e {
	case KeyOn:
		return "key-on"
	case KeyOff:
		return "key-off"
	default:
		return fmt.Sprintf("KeyEvent(%d)", int(e))
	}
}

// Controller is the control-thread side of a pipeline. Its methods are
// safe for concurrent use; none of them blocks the audio thread.
type Controller struct {
	sampleRate float64
	logger     *slog.Logger

	mu     sync.Mutex // serialises writers of params
	params atomic.Pointer[Params]
	events chan KeyEvent

	rejected atomic.Uint64
	dropped  atomic.Uint64
}

func newController(sampleRate float64, initial Params, queueSize int, logger *slog.Logger) *Controller {
	c := &Controller{
		sampleRate: sampleRate,
		logger:     logger,
		events:     make(chan KeyEvent, queueSize),
	}
	c.params.Store(&initial)

	return c
}

// Params returns the most recently published parameters.
func (c *Controller) Params() Params {
	return *c.params.Load()
}

// Rejected returns the number of rejected parameter changes.
func (c *Controller) Rejected() uint64 { return c.rejected.Load() }

// Dropped returns the number of key events lost to a full queue.
func (c *Controller) Dropped() uint64 { return c.dropped.Load() }

// SetFrequency sets the oscillator frequency in Hz. Zero and negative
// frequencies are stored as 0, which silences the periodic waveforms.
func (c *Controller) SetFrequency(hz float64) error {
	return c.update("frequency", func(p *Params) error {
		if !core.IsFinite(hz) {
			return fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
		}

		p.Frequency = math.Max(hz, 0)

		return nil
	})
}

// AdjustFrequency adds delta Hz, clamped to [0, Nyquist], and returns
// the new frequency.
func (c *Controller) AdjustFrequency(delta float64) (float64, error) {
	var out float64

	err := c.update("frequency", func(p *Params) error {
		if !core.IsFinite(delta) {
			return fmt.Errorf("%w: step %v", ErrInvalidFrequency, delta)
		}

		p.Frequency = core.Clamp(p.Frequency+delta, 0, c.sampleRate/2)
		out = p.Frequency

		return nil
	})

	return out, err
}

// SetWaveform selects the oscillator waveform.
func (c *Controller) SetWaveform(w signal.Waveform) error {
	return c.update("waveform", func(p *Params) error {
		if !w.Valid() {
			return fmt.Errorf("%w: %d", signal.ErrUnknownWaveform, int(w))
		}

		p.Waveform = w

		return nil
	})
}

// SetVolume sets the output volume in [0, 1].
func (c *Controller) SetVolume(v float64) error {
	return c.update("volume", func(p *Params) error {
		if err := validateVolume(v); err != nil {
			return err
		}

		p.Volume = v

		return nil
	})
}

// AdjustVolume adds delta to the volume, clamped to [0, 1], and returns
// the new volume.
func (c *Controller) AdjustVolume(delta float64) (float64, error) {
	var out float64

	err := c.update("volume", func(p *Params) error {
		if !core.IsFinite(delta) {
			return fmt.Errorf("%w: step %v", ErrInvalidVolume, delta)
		}

		p.Volume = core.Clamp(p.Volume+delta, 0, 1)
		out = p.Volume

		return nil
	})

	return out, err
}

// SetFilterKind selects the filter kind. The kind is checked against the
// pending cutoff and Q here, so the audio side never sees a design error.
func (c *Controller) SetFilterKind(kind design.Kind) error {
	return c.update("filter kind", func(p *Params) error {
		if _, err := design.Coefficients(kind, p.Cutoff, p.Q, c.sampleRate); err != nil {
			return err
		}

		p.FilterKind = kind

		return nil
	})
}

// SetCutoff records the filter cutoff in Hz. It takes effect on the next
// kind change or ReapplyFilter.
func (c *Controller) SetCutoff(hz float64) error {
	return c.update("cutoff", func(p *Params) error {
		if err := validateCutoff(hz, c.sampleRate); err != nil {
			return err
		}

		p.Cutoff = hz

		return nil
	})
}

// StepCutoff moves the pending cutoff up or down by a quarter octave per
// step and returns the new value.
func (c *Controller) StepCutoff(steps int) (float64, error) {
	var out float64

	err := c.update("cutoff", func(p *Params) error {
		hi := c.sampleRate * maxCutoffRatio
		p.Cutoff = core.Clamp(p.Cutoff*math.Pow(cutoffStep, float64(steps)), minCutoff, hi)
		out = p.Cutoff

		return nil
	})

	return out, err
}

// SetQ records the filter quality factor. It takes effect on the next
// kind change or ReapplyFilter.
func (c *Controller) SetQ(q float64) error {
	return c.update("q", func(p *Params) error {
		if err := validateQ(q); err != nil {
			return err
		}

		p.Q = q

		return nil
	})
}

// StepQ scales the pending Q by a fixed ratio per step and returns the
// new value.
func (c *Controller) StepQ(steps int) (float64, error) {
	var out float64

	err := c.update("q", func(p *Params) error {
		p.Q = core.Clamp(p.Q*math.Pow(qStep, float64(steps)), minQ, maxQ)
		out = p.Q

		return nil
	})

	return out, err
}

// SetFilterGain records the feed-forward gain of the filter.
func (c *Controller) SetFilterGain(gain float64) error {
	return c.update("filter gain", func(p *Params) error {
		if !core.IsFinite(gain) {
			return fmt.Errorf("%w: %v", ErrInvalidGain, gain)
		}

		p.FilterGain = gain

		return nil
	})
}

// ReapplyFilter asks the audio side to redesign the active kind with the
// pending cutoff, Q and gain.
func (c *Controller) ReapplyFilter() error {
	return c.update("reapply filter", func(p *Params) error {
		if _, err := design.Coefficients(p.FilterKind, p.Cutoff, p.Q, c.sampleRate); err != nil {
			return err
		}

		p.FilterEpoch++

		return nil
	})
}

// SetSynth enables or disables the oscillator as signal source.
func (c *Controller) SetSynth(on bool) { c.setSwitch("synth", synthSwitch, on) }

// SetInput enables or disables the external input as signal source.
func (c *Controller) SetInput(on bool) { c.setSwitch("input", inputSwitch, on) }

// SetEnvelope enables or disables the envelope as output gain.
func (c *Controller) SetEnvelope(on bool) { c.setSwitch("envelope", envelopeSwitch, on) }

// ToggleSynth flips the synth switch and returns the new state.
func (c *Controller) ToggleSynth() bool { return c.toggleSwitch("synth", synthSwitch) }

// ToggleInput flips the input switch and returns the new state.
func (c *Controller) ToggleInput() bool { return c.toggleSwitch("input", inputSwitch) }

// ToggleEnvelope flips the envelope switch and returns the new state.
func (c *Controller) ToggleEnvelope() bool { return c.toggleSwitch("envelope", envelopeSwitch) }

func synthSwitch(p *Params) *bool { return &p.Synth }
func inputSwitch(p *Params) *bool { return &p.Input }
func envelopeSwitch(p *Params) *bool { return &p.Envelope }

func (c *Controller) setSwitch(op string, sw func(*Params) *bool, on bool) {
	_ = c.update(op, func(p *Params) error {
		*sw(p) = on
		return nil
	})
}

func (c *Controller) toggleSwitch(op string, sw func(*Params) *bool) bool {
	var on bool

	_ = c.update(op, func(p *Params) error {
		on = !*sw(p)
		*sw(p) = on

		return nil
	})

	return on
}

// KeyOn queues an envelope key-on.
func (c *Controller) KeyOn() error { return c.send(KeyOn) }

// KeyOff queues an envelope key-off.
func (c *Controller) KeyOff() error { return c.send(KeyOff) }

func (c *Controller) send(ev KeyEvent) error {
	select {
	case c.events <- ev:
		c.logger.Debug("key event queued", "event", ev)
		return nil
	default:
		c.dropped.Add(1)
		c.logger.Warn("key event dropped", "event", ev, "queue", cap(c.events))

		return fmt.Errorf("%w: %v", ErrEventQueueFull, ev)
	}
}

// update applies fn to a copy of the current parameters and publishes
// the copy. On error nothing is published and the rejection is counted.
func (c *Controller) update(op string, fn func(*Params) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := *c.params.Load()
	if err := fn(&next); err != nil {
		c.rejected.Add(1)
		c.logger.Warn("parameter rejected", "op", op, "err", err)

		return fmt.Errorf("pipeline: %s: %w", op, err)
	}

	c.params.Store(&next)
	c.logger.Debug("parameters published", "op", op)

	return nil
}
