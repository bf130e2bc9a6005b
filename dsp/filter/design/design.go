package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/filter/biquad"
)

var (
	// ErrInvalidCutoff is returned when the cutoff is not inside (0, Nyquist).
	ErrInvalidCutoff = errors.New("design: cutoff must be in (0, sampleRate/2)")
	// ErrInvalidQ is returned for a non-positive or non-finite quality factor,
	// or one too low for a band design at the given cutoff.
	ErrInvalidQ = errors.New("design: invalid quality factor")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("design: sample rate must be > 0")
)

// Coefficients designs the section for kind at the given cutoff (Hz),
// quality factor and sample rate.
func Coefficients(kind Kind, cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	if !kind.Valid() {
		return biquad.Coefficients{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	if kind == Bypass {
		return biquad.Passthrough(), nil
	}

	if err := validate(cutoff, sampleRate); err != nil {
		return biquad.Coefficients{}, err
	}

	if kind.UsesQ() && !(q > 0 && !math.IsInf(q, 0)) {
		return biquad.Coefficients{}, fmt.Errorf("%w: %v", ErrInvalidQ, q)
	}

	switch kind {
	case FirstOrderLowpass:
		return firstOrderLowpass(cutoff, sampleRate), nil
	case FirstOrderHighpass:
		return firstOrderHighpass(cutoff, sampleRate), nil
	case Lowpass:
		return lowpass(cutoff, q, sampleRate), nil
	case Highpass:
		return highpass(cutoff, q, sampleRate), nil
	case Bandpass:
		return bandpass(cutoff, q, sampleRate)
	case Bandstop:
		return bandstop(cutoff, q, sampleRate)
	case ButterworthLowpass:
		return butterworthLowpass(cutoff, sampleRate), nil
	case ButterworthHighpass:
		return butterworthHighpass(cutoff, sampleRate), nil
	case ButterworthBandpass:
		return butterworthBandpass(cutoff, q, sampleRate)
	case ButterworthBandstop:
		return butterworthBandstop(cutoff, q, sampleRate)
	default:
		return biquad.Coefficients{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// FirstOrderLowpassCoefficients designs a one-pole, one-zero lowpass.
func FirstOrderLowpassCoefficients(cutoff, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(FirstOrderLowpass, cutoff, 1, sampleRate)
}

// FirstOrderHighpassCoefficients designs a one-pole, one-zero highpass.
func FirstOrderHighpassCoefficients(cutoff, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(FirstOrderHighpass, cutoff, 1, sampleRate)
}

// LowpassCoefficients designs a resonant second-order lowpass.
func LowpassCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(Lowpass, cutoff, q, sampleRate)
}

// HighpassCoefficients designs a resonant second-order highpass.
func HighpassCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(Highpass, cutoff, q, sampleRate)
}

// BandpassCoefficients designs a second-order bandpass with unity peak gain.
func BandpassCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(Bandpass, cutoff, q, sampleRate)
}

// BandstopCoefficients designs a second-order notch.
func BandstopCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(Bandstop, cutoff, q, sampleRate)
}

// ButterworthLowpassCoefficients designs a maximally flat second-order lowpass.
func ButterworthLowpassCoefficients(cutoff, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(ButterworthLowpass, cutoff, 1, sampleRate)
}

// ButterworthHighpassCoefficients designs a maximally flat second-order highpass.
func ButterworthHighpassCoefficients(cutoff, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(ButterworthHighpass, cutoff, 1, sampleRate)
}

// ButterworthBandpassCoefficients designs a bandpass of bandwidth cutoff/q.
func ButterworthBandpassCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(ButterworthBandpass, cutoff, q, sampleRate)
}

// ButterworthBandstopCoefficients designs a bandstop of bandwidth cutoff/q.
func ButterworthBandstopCoefficients(cutoff, q, sampleRate float64) (biquad.Coefficients, error) {
	return Coefficients(ButterworthBandstop, cutoff, q, sampleRate)
}

func validate(cutoff, sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if !(cutoff > 0) || cutoff >= sampleRate/2 {
		return fmt.Errorf("%w: %v at %v Hz", ErrInvalidCutoff, cutoff, sampleRate)
	}

	return nil
}

func firstOrderLowpass(fc, sr float64) biquad.Coefficients {
	phi := 2 * math.Pi * fc / sr
	gamma := math.Cos(phi) / (1 + math.Sin(phi))
	alpha := (1 - gamma) / 2

	return biquad.Coefficients{B0: alpha, B1: alpha, A1: -gamma}
}

func firstOrderHighpass(fc, sr float64) biquad.Coefficients {
	phi := 2 * math.Pi * fc / sr
	gamma := math.Cos(phi) / (1 + math.Sin(phi))
	alpha := (1 + gamma) / 2

	return biquad.Coefficients{B0: alpha, B1: -alpha, A1: -gamma}
}

// resonantBeta returns beta and gamma for the resonant lowpass/highpass.
func resonantBeta(fc, q, sr float64) (phi, beta, gamma float64) {
	phi = 2 * math.Pi * fc / sr
	h := math.Sin(phi) / (2 * q)
	beta = 0.5 * (1 - h) / (1 + h)
	gamma = (0.5 + beta) * math.Cos(phi)

	return phi, beta, gamma
}

// bandBeta returns beta and gamma for the resonant bandpass/bandstop. The
// half bandwidth phi/(2q) must stay below pi/2, otherwise the poles leave
// the unit circle.
func bandBeta(fc, q, sr float64) (beta, gamma float64, err error) {
	phi := 2 * math.Pi * fc / sr
	half := phi / (2 * q)
	if half >= math.Pi/2 {
		return 0, 0, fmt.Errorf("%w: Q %v too low for %v Hz at %v Hz", ErrInvalidQ, q, fc, sr)
	}

	t := math.Tan(half)
	beta = 0.5 * (1 - t) / (1 + t)
	gamma = (0.5 + beta) * math.Cos(phi)

	return beta, gamma, nil
}

func lowpass(fc, q, sr float64) biquad.Coefficients {
	_, beta, gamma := resonantBeta(fc, q, sr)
	alpha := (0.5 + beta - gamma) / 2

	return biquad.Coefficients{
		B0: alpha, B1: 2 * alpha, B2: alpha,
		A1: -2 * gamma, A2: 2 * beta,
	}
}

func highpass(fc, q, sr float64) biquad.Coefficients {
	_, beta, gamma := resonantBeta(fc, q, sr)
	alpha := (0.5 + beta + gamma) / 2

	return biquad.Coefficients{
		B0: alpha, B1: -2 * alpha, B2: alpha,
		A1: -2 * gamma, A2: 2 * beta,
	}
}

func bandpass(fc, q, sr float64) (biquad.Coefficients, error) {
	beta, gamma, err := bandBeta(fc, q, sr)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	alpha := 0.5 - beta

	return biquad.Coefficients{
		B0: alpha, B2: -alpha,
		A1: -2 * gamma, A2: 2 * beta,
	}, nil
}

func bandstop(fc, q, sr float64) (biquad.Coefficients, error) {
	beta, gamma, err := bandBeta(fc, q, sr)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	alpha := 0.5 + beta

	return biquad.Coefficients{
		B0: alpha, B1: -2 * gamma, B2: alpha,
		A1: -2 * gamma, A2: 2 * beta,
	}, nil
}

func butterworthLowpass(fc, sr float64) biquad.Coefficients {
	c := 1 / math.Tan(math.Pi*fc/sr)
	a0 := 1 / (1 + math.Sqrt2*c + c*c)

	return biquad.Coefficients{
		B0: a0, B1: 2 * a0, B2: a0,
		A1: 2 * a0 * (1 - c*c),
		A2: a0 * (1 - math.Sqrt2*c + c*c),
	}
}

func butterworthHighpass(fc, sr float64) biquad.Coefficients {
	c := math.Tan(math.Pi * fc / sr)
	a0 := 1 / (1 + math.Sqrt2*c + c*c)

	return biquad.Coefficients{
		B0: a0, B1: -2 * a0, B2: a0,
		A1: 2 * a0 * (c*c - 1),
		A2: a0 * (1 - math.Sqrt2*c + c*c),
	}
}

// bandwidth returns fc/q, rejecting bands that reach Nyquist.
func bandwidth(fc, q, sr float64) (float64, error) {
	bw := fc / q
	if bw >= sr/2 {
		return 0, fmt.Errorf("%w: bandwidth %v Hz reaches Nyquist", ErrInvalidQ, bw)
	}

	return bw, nil
}

func butterworthBandpass(fc, q, sr float64) (biquad.Coefficients, error) {
	bw, err := bandwidth(fc, q, sr)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	c := 1 / math.Tan(math.Pi*bw/sr)
	d := 2 * math.Cos(2*math.Pi*fc/sr)
	a0 := 1 / (1 + c)

	return biquad.Coefficients{
		B0: a0, B2: -a0,
		A1: -a0 * c * d,
		A2: a0 * (c - 1),
	}, nil
}

func butterworthBandstop(fc, q, sr float64) (biquad.Coefficients, error) {
	bw, err := bandwidth(fc, q, sr)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	c := math.Tan(math.Pi * bw / sr)
	d := 2 * math.Cos(2*math.Pi*fc/sr)
	a0 := 1 / (1 + c)

	return biquad.Coefficients{
		B0: a0, B1: -a0 * d, B2: a0,
		A1: -a0 * d,
		A2: a0 * (1 - c),
	}, nil
}
