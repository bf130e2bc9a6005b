// Package envelope provides a linear ADSR envelope generator driven by
// key-on and key-off events.
package envelope

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	defaultAttackRate  = 0.001
	defaultDecayRate   = 0.001
	defaultReleaseRate = 0.005
	defaultSustain     = 0.5

	// releaseTimeUnset marks a release configured as a raw rate.
	releaseTimeUnset = -1.0
)

var (
	// ErrInvalidRate is returned for a rate that is not positive and finite.
	ErrInvalidRate = errors.New("envelope: rate must be > 0 and finite")
	// ErrInvalidTime is returned for a time that is not positive and finite.
	ErrInvalidTime = errors.New("envelope: time must be > 0 and finite")
	// ErrInvalidLevel is returned for a negative or non-finite level.
	ErrInvalidLevel = errors.New("envelope: level must be >= 0 and finite")
)

// State is the stage of the envelope.
type State int

const (
	Attack State = iota
	Decay
	Sustain
	Release
	Idle
)

func (s State) String() string {
	switch s {
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ADSR is a linear attack/decay/sustain/release envelope. Rates are level
// increments per sample. It starts Idle at level 0.
type ADSR struct {
	sampleRate float64

	state   State
	level   float64
	target  float64
	sustain float64

	attackRate  float64
	decayRate   float64
	releaseRate float64
	releaseTime float64
}

// Option mutates constructor configuration.
type Option func(*ADSR) error

// WithTimes sets attack, decay and release times in seconds and the
// sustain level, as SetAllTimes does.
func WithTimes(attack, decay, sustain, release float64) Option {
	return func(e *ADSR) error {
		return e.SetAllTimes(attack, decay, sustain, release)
	}
}

// WithSustain sets the sustain level.
func WithSustain(level float64) Option {
	return func(e *ADSR) error {
		return e.SetSustain(level)
	}
}

// New returns an Idle envelope at sampleRate.
func New(sampleRate float64, opts ...Option) (*ADSR, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("envelope: sample rate must be > 0 and finite: %v", sampleRate)
	}

	e := &ADSR{
		sampleRate:  sampleRate,
		state:       Idle,
		sustain:     defaultSustain,
		attackRate:  defaultAttackRate,
		decayRate:   defaultDecayRate,
		releaseRate: defaultReleaseRate,
		releaseTime: releaseTimeUnset,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// State returns the current stage.
func (e *ADSR) State() State { return e.state }

// Level returns the current output level.
func (e *ADSR) Level() float64 { return e.level }

// Target returns the level the current stage moves towards.
func (e *ADSR) Target() float64 { return e.target }

// Sustain returns the sustain level.
func (e *ADSR) Sustain() float64 { return e.sustain }

// AttackRate returns the attack increment per sample.
func (e *ADSR) AttackRate() float64 { return e.attackRate }

// DecayRate returns the decay increment per sample.
func (e *ADSR) DecayRate() float64 { return e.decayRate }

// ReleaseRate returns the release decrement per sample.
func (e *ADSR) ReleaseRate() float64 { return e.releaseRate }

// Active reports whether the envelope is not Idle.
func (e *ADSR) Active() bool { return e.state != Idle }

// KeyOn starts the attack. A non-positive target is raised to 1.
func (e *ADSR) KeyOn() {
	if e.target <= 0 {
		e.target = 1
	}

	e.state = Attack
}

// KeyOff starts the release from the current level. If the release was
// configured as a time, the rate is recomputed so that the release takes
// that long from here.
func (e *ADSR) KeyOff() {
	e.target = 0
	e.state = Release

	if e.releaseTime > 0 {
		e.releaseRate = e.level / (e.releaseTime * e.sampleRate)
	}
}

// SetAttackRate sets the attack increment per sample.
func (e *ADSR) SetAttackRate(rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	e.attackRate = rate

	return nil
}

// SetDecayRate sets the decay increment per sample.
func (e *ADSR) SetDecayRate(rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	e.decayRate = rate

	return nil
}

// SetReleaseRate sets the release decrement per sample and forgets any
// release time.
func (e *ADSR) SetReleaseRate(rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	e.releaseRate = rate
	e.releaseTime = releaseTimeUnset

	return nil
}

// SetAttackTime sets the time in seconds to rise from 0 to 1.
func (e *ADSR) SetAttackTime(seconds float64) error {
	if err := validateTime(seconds); err != nil {
		return err
	}

	e.attackRate = 1 / (seconds * e.sampleRate)

	return nil
}

// SetDecayTime sets the time in seconds to fall from 1 to the current
// sustain level.
func (e *ADSR) SetDecayTime(seconds float64) error {
	if err := validateTime(seconds); err != nil {
		return err
	}

	e.decayRate = (1 - e.sustain) / (seconds * e.sampleRate)

	return nil
}

// SetReleaseTime sets the release duration in seconds. KeyOff rescales the
// rate to the level it starts from.
func (e *ADSR) SetReleaseTime(seconds float64) error {
	if err := validateTime(seconds); err != nil {
		return err
	}

	e.releaseRate = e.sustain / (seconds * e.sampleRate)
	e.releaseTime = seconds

	return nil
}

// SetAllTimes sets the sustain level and then the attack, decay and
// release times. Nothing changes if any argument is invalid.
func (e *ADSR) SetAllTimes(attack, decay, sustain, release float64) error {
	for _, t := range [...]float64{attack, decay, release} {
		if err := validateTime(t); err != nil {
			return err
		}
	}

	if err := validateLevel(sustain); err != nil {
		return err
	}

	e.sustain = sustain
	_ = e.SetAttackTime(attack)
	_ = e.SetDecayTime(decay)
	_ = e.SetReleaseTime(release)

	return nil
}

// SetSustain sets the sustain level.
func (e *ADSR) SetSustain(level float64) error {
	if err := validateLevel(level); err != nil {
		return err
	}

	e.sustain = level

	return nil
}

// SetAttackTarget sets the peak level the next attack rises to.
func (e *ADSR) SetAttackTarget(level float64) error {
	if err := validateLevel(level); err != nil {
		return err
	}

	e.target = level

	return nil
}

// SetTarget moves the envelope towards level and holds it there: the
// level also becomes the sustain level.
func (e *ADSR) SetTarget(level float64) error {
	if err := validateLevel(level); err != nil {
		return err
	}

	e.target = level
	e.sustain = level

	switch {
	case e.level < level:
		e.state = Attack
	case e.level > level:
		e.state = Decay
	}

	return nil
}

// SetValue jumps to level and holds it.
func (e *ADSR) SetValue(level float64) error {
	if err := validateLevel(level); err != nil {
		return err
	}

	e.state = Sustain
	e.target = level
	e.level = level
	e.sustain = level

	return nil
}

// Reset returns to Idle at level 0. Rates and sustain are kept.
func (e *ADSR) Reset() {
	e.state = Idle
	e.level = 0
	e.target = 0
}

// attackSlack is the fraction of one attack step by which the level may
// miss the target and still end the attack.
const attackSlack = 1e-6

// Process advances the envelope by one sample and returns the new level.
func (e *ADSR) Process() float64 {
	switch e.state {
	case Attack:
		e.level += e.attackRate
		// Repeated addition may land a rounding error short of the target;
		// that still counts as reached.
		if e.level >= e.target-e.attackRate*attackSlack {
			e.level = e.target
			e.target = e.sustain
			e.state = Decay
		}
	case Decay:
		if e.level > e.sustain {
			e.level -= e.decayRate
			if e.level <= e.sustain {
				e.level = e.sustain
				e.state = Sustain
			}
		} else {
			e.level += e.decayRate
			if e.level >= e.sustain {
				e.level = e.sustain
				e.state = Sustain
			}
		}
	case Release:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.level = 0
			e.state = Idle
		}
	case Sustain, Idle:
	}

	return e.level
}

// ProcessBlock fills dst with consecutive envelope levels.
func (e *ADSR) ProcessBlock(dst []float64) {
	for i := range dst {
		dst[i] = e.Process()
	}
}

func validateRate(rate float64) error {
	if !core.IsFinite(rate) || rate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	return nil
}

func validateTime(seconds float64) error {
	if !core.IsFinite(seconds) || seconds <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTime, seconds)
	}

	return nil
}

func validateLevel(level float64) error {
	if !core.IsFinite(level) || level < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, level)
	}

	return nil
}
