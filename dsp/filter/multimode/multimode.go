package multimode

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/biquad"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
)

const (
	defaultCutoff = 1000.0
	defaultQ      = 0.7071067811865476
	defaultGain   = 1.0
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	kind   design.Kind
	cutoff float64
	q      float64
	gain   float64
}

func defaultConfig() config {
	return config{
		kind:   design.Bypass,
		cutoff: defaultCutoff,
		q:      defaultQ,
		gain:   defaultGain,
	}
}

// WithKind selects the initial filter kind. Default: design.Bypass.
func WithKind(kind design.Kind) Option {
	return func(cfg *config) error {
		if !kind.Valid() {
			return fmt.Errorf("multimode: %w: %d", design.ErrUnknownKind, int(kind))
		}

		cfg.kind = kind

		return nil
	}
}

// WithCutoff sets the initial cutoff or center frequency in Hz. Default: 1000.
func WithCutoff(hz float64) Option {
	return func(cfg *config) error {
		cfg.cutoff = hz
		return nil
	}
}

// WithQ sets the initial quality factor. Default: 1/sqrt(2).
func WithQ(q float64) Option {
	return func(cfg *config) error {
		cfg.q = q
		return nil
	}
}

// WithGain sets the feed-forward gain. Default: 1.
func WithGain(gain float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(gain) {
			return fmt.Errorf("multimode: gain must be finite: %v", gain)
		}

		cfg.gain = gain

		return nil
	}
}

// Filter is a runtime-reconfigurable biquad. It is not safe for concurrent
// use; the owner serialises parameter changes with processing.
type Filter struct {
	sampleRate float64

	// Pending parameters, latched by the next reconfiguration.
	cutoff float64
	q      float64
	gain   float64

	// Active configuration.
	kind   design.Kind
	coeffs biquad.Coefficients
	g      float64

	x1, x2 float64
	y1, y2 float64

	reconfigs uint64
}

// New returns a filter at sampleRate configured by opts. The initial
// design does not count as a reconfiguration.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("multimode: %w: %v", design.ErrInvalidSampleRate, sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sampleRate: sampleRate,
		cutoff:     cfg.cutoff,
		q:          cfg.q,
		gain:       cfg.gain,
	}

	if err := f.configure(cfg.kind); err != nil {
		return nil, err
	}

	f.reconfigs = 0

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Kind returns the active filter kind.
func (f *Filter) Kind() design.Kind { return f.kind }

// Cutoff returns the pending cutoff in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// Q returns the pending quality factor.
func (f *Filter) Q() float64 { return f.q }

// Gain returns the pending feed-forward gain.
func (f *Filter) Gain() float64 { return f.gain }

// Coefficients returns the active section.
func (f *Filter) Coefficients() biquad.Coefficients { return f.coeffs }

// Reconfigurations returns how many times SetKind redesigned the section.
func (f *Filter) Reconfigurations() uint64 { return f.reconfigs }

// SetCutoff records hz for the next reconfiguration.
func (f *Filter) SetCutoff(hz float64) { f.cutoff = hz }

// SetQ records q for the next reconfiguration.
func (f *Filter) SetQ(q float64) { f.q = q }

// SetGain records gain for the next reconfiguration.
func (f *Filter) SetGain(gain float64) { f.gain = gain }

// SetKind switches to kind. Selecting the active kind is a no-op. On error
// the previous configuration stays in effect.
func (f *Filter) SetKind(kind design.Kind) error {
	if kind == f.kind {
		return nil
	}

	return f.configure(kind)
}

// Reconfigure redesigns the active kind with the pending parameters.
func (f *Filter) Reconfigure() error {
	return f.configure(f.kind)
}

func (f *Filter) configure(kind design.Kind) error {
	if !core.IsFinite(f.gain) {
		return fmt.Errorf("multimode: gain must be finite: %v", f.gain)
	}

	c, err := design.Coefficients(kind, f.cutoff, f.q, f.sampleRate)
	if err != nil {
		return fmt.Errorf("multimode: configure %v: %w", kind, err)
	}

	f.kind = kind
	f.coeffs = c
	f.g = f.gain
	f.reconfigs++

	return nil
}

// ProcessSample filters one sample and returns the blend of filtered and
// dry signal.
func (f *Filter) ProcessSample(x float64) float64 {
	c := &f.coeffs
	y := f.g*(c.B0*x+c.B1*f.x1+c.B2*f.x2) - c.A1*f.y1 - c.A2*f.y2

	y = core.FlushSubnormal(y)

	if x == 0 {
		y = 0
		f.y1 = 0
		f.y2 = 0
	}

	f.y2 = f.y1
	f.y1 = y
	f.x2 = f.x1
	f.x1 = x

	return (y + x) / 2
}

// Process filters buf in place.
func (f *Filter) Process(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessFloat32 filters buf in place, running the section in float64.
func (f *Filter) ProcessFloat32(buf []float32) {
	for i, x := range buf {
		buf[i] = float32(f.ProcessSample(float64(x)))
	}
}

// Reset clears the delay lines. The configuration is kept.
func (f *Filter) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}

// State is a snapshot of the delay lines.
type State struct {
	X1, X2 float64
	Y1, Y2 float64
}

// State returns the current delay lines.
func (f *Filter) State() State {
	return State{X1: f.x1, X2: f.x2, Y1: f.y1, Y2: f.y2}
}

// SetState restores delay lines captured by State.
func (f *Filter) SetState(s State) {
	f.x1, f.x2 = s.X1, s.X2
	f.y1, f.y2 = s.Y1, s.Y2
}

// MagnitudeDB returns the magnitude of the wet path, gain included, at
// freqHz. The dry blend and the silence rule are not part of it.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	c := f.coeffs.Scaled(f.g)
	return c.MagnitudeDB(freqHz, f.sampleRate)
}

// BlendMagnitude returns |(g*H(f) + 1)/2|, the steady-state gain of
// ProcessSample for inputs that never hit exactly zero.
func (f *Filter) BlendMagnitude(freqHz float64) float64 {
	c := f.coeffs.Scaled(f.g)
	h := (c.Response(freqHz, f.sampleRate) + 1) / 2

	return cmplx.Abs(h)
}
