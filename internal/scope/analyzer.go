// Package scope draws the pipeline's output window as a text oscilloscope
// with level and dominant frequency readouts.
package scope

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidSize is returned for analyzer sizes that are not a power of two
// of at least minSize.
var ErrInvalidSize = errors.New("scope: analyzer size must be a power of two >= 16")

const (
	minSize = 16
	// silence is the peak below which no dominant frequency is reported.
	silence = 1e-6
	floorDB = -120.0
)

// Levels summarises one window.
type Levels struct {
	RMS    float64
	Peak   float64
	PeakDB float64
	// Dominant is the frequency of the strongest spectral peak in Hz, 0 for
	// silence.
	Dominant float64
}

// Analyzer measures level and dominant frequency of fixed-size windows.
// Its buffers are allocated once; Analyze does not allocate.
type Analyzer struct {
	sampleRate float64
	size       int

	plan   *algofft.Plan[complex128]
	win    []float64
	frame  []float64
	sq     []float64
	in     []complex128
	out    []complex128
	re, im []float64
	mag    []float64
}

// NewAnalyzer returns an analyzer over the last size samples of each
// window.
func NewAnalyzer(sampleRate float64, size int) (*Analyzer, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("scope: sample rate must be > 0: %v", sampleRate)
	}

	if size < minSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("scope: fft plan: %w", err)
	}

	bins := size/2 + 1

	return &Analyzer{
		sampleRate: sampleRate,
		size:       size,
		plan:       plan,
		win:        window.Generate(window.TypeHann, size, window.WithPeriodic()),
		frame:      make([]float64, size),
		sq:         make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mag:        make([]float64, bins),
	}, nil
}

// Size returns the FFT length.
func (a *Analyzer) Size() int { return a.size }

// Analyze measures the newest Size() samples of samples. Shorter input is
// zero padded at the front.
func (a *Analyzer) Analyze(samples []float32) Levels {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}

	pad := a.size - len(samples)
	core.Zero(a.frame[:pad])

	for i, s := range samples {
		a.frame[pad+i] = float64(s)
	}

	var lv Levels

	if len(samples) > 0 {
		vecmath.MulBlock(a.sq, a.frame, a.frame)

		var sum float64
		for _, v := range a.sq[pad:] {
			sum += v
		}

		lv.RMS = math.Sqrt(sum / float64(len(samples)))
	}

	for _, v := range a.frame {
		lv.Peak = math.Max(lv.Peak, math.Abs(v))
	}

	lv.PeakDB = math.Max(core.LinearToDB(lv.Peak), floorDB)

	if lv.Peak < silence {
		return lv
	}

	lv.Dominant = a.dominant()

	return lv
}

func (a *Analyzer) dominant() float64 {
	if err := window.ApplyCoefficients(a.sq, a.frame, a.win); err != nil {
		return 0
	}

	for i, v := range a.sq {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0
	}

	for k := range a.mag {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	// DC is never reported as the dominant component.
	best := 1
	for k := 2; k < len(a.mag); k++ {
		if a.mag[k] > a.mag[best] {
			best = k
		}
	}

	bin := float64(best)
	if best < len(a.mag)-1 {
		bin += parabolicOffset(a.mag[best-1], a.mag[best], a.mag[best+1])
	}

	return bin * a.sampleRate / float64(a.size)
}

// parabolicOffset fits a parabola through three log magnitudes and returns
// the vertex position relative to the middle one, in [-0.5, 0.5].
func parabolicOffset(l, c, r float64) float64 {
	const eps = 1e-300

	ll := math.Log(l + eps)
	lc := math.Log(c + eps)
	lr := math.Log(r + eps)

	den := ll - 2*lc + lr
	if den >= 0 {
		return 0
	}

	return core.Clamp(0.5*(ll-lr)/den, -0.5, 0.5)
}
