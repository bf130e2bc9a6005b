package pipeline

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

const (
	DefaultFrequency = 440.0
	DefaultVolume    = 0.5
	DefaultCutoff    = 1000.0
	DefaultQ         = 0.7071067811865476

	// VolumeStep and FrequencyStep are the increments of the volume and
	// frequency keys.
	VolumeStep    = 0.05
	FrequencyStep = 1.0
)

var (
	// ErrInvalidFrequency is returned for a NaN or infinite frequency.
	ErrInvalidFrequency = errors.New("pipeline: frequency must be finite")
	// ErrInvalidVolume is returned for a volume outside [0, 1].
	ErrInvalidVolume = errors.New("pipeline: volume must be in [0, 1]")
	// ErrInvalidGain is returned for a non-finite filter gain.
	ErrInvalidGain = errors.New("pipeline: filter gain must be finite")
)

// Params is an immutable snapshot of the continuous control parameters.
// The controller publishes a fresh copy for every change.
type Params struct {
	Frequency float64
	Waveform  signal.Waveform
	Volume    float64

	FilterKind design.Kind
	Cutoff     float64
	Q          float64
	FilterGain float64
	// FilterEpoch increments when the active kind must be redesigned with
	// the pending cutoff, Q and gain without a kind change.
	FilterEpoch uint64

	Synth    bool
	Input    bool
	Envelope bool
}

// DefaultParams returns a 440 Hz sine at half volume through a bypassed
// filter, with the synth enabled.
func DefaultParams() Params {
	return Params{
		Frequency:  DefaultFrequency,
		Waveform:   signal.Sine,
		Volume:     DefaultVolume,
		FilterKind: design.Bypass,
		Cutoff:     DefaultCutoff,
		Q:          DefaultQ,
		FilterGain: 1,
		Synth:      true,
	}
}

// Validate checks p against sampleRate. Cutoff and Q only have to suit
// the selected kind; a bypassed filter accepts any positive values.
func (p Params) Validate(sampleRate float64) error {
	if !core.IsFinite(p.Frequency) {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, p.Frequency)
	}

	if !p.Waveform.Valid() {
		return fmt.Errorf("%w: %d", signal.ErrUnknownWaveform, int(p.Waveform))
	}

	if err := validateVolume(p.Volume); err != nil {
		return err
	}

	if !core.IsFinite(p.FilterGain) {
		return fmt.Errorf("%w: %v", ErrInvalidGain, p.FilterGain)
	}

	if err := validateCutoff(p.Cutoff, sampleRate); err != nil {
		return err
	}

	if err := validateQ(p.Q); err != nil {
		return err
	}

	if _, err := design.Coefficients(p.FilterKind, p.Cutoff, p.Q, sampleRate); err != nil {
		return err
	}

	return nil
}

func validateVolume(v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, v)
	}

	return nil
}

func validateCutoff(hz, sampleRate float64) error {
	if !(hz > 0) || hz >= sampleRate/2 {
		return fmt.Errorf("%w: %v", design.ErrInvalidCutoff, hz)
	}

	return nil
}

func validateQ(q float64) error {
	if !(q > 0) || !core.IsFinite(q) {
		return fmt.Errorf("%w: %v", design.ErrInvalidQ, q)
	}

	return nil
}
