package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const twoPi = 2 * math.Pi

// Pink noise filter: three one-pole lowpasses over white noise, gains
// rescaled by (1+P)/(1-P).
var (
	pinkPoles = [3]float64{0.3190, 0.7756, 0.9613}
	pinkGains = [3]float64{0.02109238, 0.07113478, 0.68873558}
)

const (
	pinkOffset = 0.02109238 + 0.07113478 + 0.68873558
	pinkScale  = 2
	// Pink poles are fed uniform samples in [0, 2); the states start at
	// the input mean so the first output samples carry no DC step.
	pinkInputMean = 1
)

// Oscillator generates one sample per call for a selectable waveform.
//
// Sine and square advance a phase accumulator in [0, 2*pi). Sawtooth and
// triangle advance a bipolar ramp in [-1, 1) by 2/T per sample, where T is
// the period in samples. The ramp is shared between the two so switching
// between them keeps continuity.
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseIncr  float64
	period     float64 // samples per cycle, 0 when frequency is 0
	rampIncr   float64 // 2/period

	waveform Waveform
	ramp     float64
	pink     [3]float64

	seed int64
	rng  *rand.Rand
}

// OscillatorOption configures an Oscillator.
type OscillatorOption func(*Oscillator)

// WithSeed sets the deterministic random seed used by the noise waveforms.
func WithSeed(seed int64) OscillatorOption {
	return func(o *Oscillator) {
		o.seed = seed
	}
}

// WithWaveform sets the initial waveform. Unknown waveforms are ignored.
func WithWaveform(w Waveform) OscillatorOption {
	return func(o *Oscillator) {
		if w.Valid() {
			o.waveform = w
		}
	}
}

// WithFrequency sets the initial frequency in Hz.
func WithFrequency(freqHz float64) OscillatorOption {
	return func(o *Oscillator) {
		o.frequency = freqHz
	}
}

// NewOscillator creates an oscillator running at sampleRate. It starts at
// 0 Hz (silent) with a sine waveform unless options say otherwise.
func NewOscillator(sampleRate float64, opts ...OscillatorOption) (*Oscillator, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("signal: sample rate must be > 0: %f", sampleRate)
	}

	o := &Oscillator{
		sampleRate: sampleRate,
		seed:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	o.rng = rand.New(rand.NewSource(o.seed))
	o.resetPink()
	o.SetFrequency(o.frequency)

	return o, nil
}

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// Waveform returns the active waveform.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// Phase returns the phase accumulator in radians, always in [0, 2*pi).
func (o *Oscillator) Phase() float64 { return o.phase }

// PhaseIncrement returns the per-sample phase advance in radians.
func (o *Oscillator) PhaseIncrement() float64 { return o.phaseIncr }

// Period returns the period in samples. ok is false while the frequency is
// 0, where no period exists.
func (o *Oscillator) Period() (period float64, ok bool) {
	return o.period, o.period > 0
}

// SetFrequency sets the frequency in Hz. Negative, zero and NaN values
// select silence: periodic waveforms then emit 0 and hold their state.
func (o *Oscillator) SetFrequency(freqHz float64) {
	if !(freqHz > 0) || math.IsInf(freqHz, 0) {
		freqHz = 0
	}

	o.frequency = freqHz
	o.phaseIncr = twoPi * freqHz / o.sampleRate

	if freqHz == 0 {
		o.period = 0
		o.rampIncr = 0
		return
	}

	o.period = o.sampleRate / freqHz
	o.rampIncr = 2 / o.period
}

// SetWaveform switches the generation algorithm. Unknown waveforms return
// ErrUnknownWaveform and keep the current one. Phase and ramp carry over
// unchanged, so the switch itself may be audible.
func (o *Oscillator) SetWaveform(w Waveform) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownWaveform, int(w))
	}
	o.waveform = w
	return nil
}

// Reset rewinds phase and ramp to zero, clears the pink noise filter and
// reseeds the noise source.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.ramp = 0
	o.rng.Seed(o.seed)
	o.resetPink()
}

// GenerateSample returns the next sample and advances the oscillator.
//
// Periodic waveforms are bounded to [-1, 1]. White noise is Gaussian with a
// standard deviation of 0.5 and is not clipped; pink noise is not clipped
// either.
func (o *Oscillator) GenerateSample() float64 {
	switch o.waveform {
	case Sine:
		if o.frequency == 0 {
			return 0
		}
		s := math.Sin(o.phase)
		o.advancePhase()
		return s

	case Sawtooth:
		if o.frequency == 0 {
			return 0
		}
		o.ramp += o.rampIncr
		o.wrapRamp()
		return o.ramp

	case Triangle:
		if o.frequency == 0 {
			return 0
		}
		o.ramp += o.rampIncr
		// |ramp| may exceed 1 by one increment on the wrap sample.
		s := core.Clamp(math.Abs(o.ramp)*2-1, -1, 1)
		o.wrapRamp()
		return s

	case Square:
		if o.frequency == 0 {
			return 0
		}
		s := math.Sin(o.phase)
		o.advancePhase()
		switch {
		case s > 0:
			return 1
		case s < 0:
			return -1
		default:
			return 0
		}

	case WhiteNoise:
		return o.gaussian()

	case PinkNoise:
		return o.pinkSample()

	default:
		return 0
	}
}

// Generate fills dst with consecutive samples.
func (o *Oscillator) Generate(dst []float64) {
	for i := range dst {
		dst[i] = o.GenerateSample()
	}
}

func (o *Oscillator) advancePhase() {
	o.phase += o.phaseIncr
	if o.phase >= twoPi {
		o.phase -= twoPi
		// Only reachable when the increment itself is >= 2*pi.
		if o.phase >= twoPi {
			o.phase = math.Mod(o.phase, twoPi)
		}
	}
}

func (o *Oscillator) wrapRamp() {
	if o.ramp >= 1 {
		o.ramp -= 2
		if o.ramp >= 1 {
			o.ramp = math.Mod(o.ramp+1, 2) - 1
		}
	}
}

// gaussian draws one Box-Muller sample scaled by 1/2.
func (o *Oscillator) gaussian() float64 {
	u1 := 1 - o.rng.Float64() // (0, 1], keeps the log finite
	u2 := o.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(twoPi*u2) / 2
}

func (o *Oscillator) pinkSample() float64 {
	var sum float64
	for i := range o.pink {
		x := 2 * o.rng.Float64()
		o.pink[i] = pinkPoles[i]*(o.pink[i]-x) + x
		sum += pinkGains[i] * o.pink[i]
	}
	return (sum - pinkOffset) * pinkScale
}

func (o *Oscillator) resetPink() {
	for i := range o.pink {
		o.pink[i] = pinkInputMean
	}
}
