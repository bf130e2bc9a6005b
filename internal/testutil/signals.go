// Package testutil holds signal generators and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Sine returns length samples of amplitude*sin(2*pi*freqHz*n/sampleRate).
// Sample 0 is exactly zero.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns seeded uniform noise in [-amplitude, amplitude]. None of
// the samples is exactly zero, so the filter silence rule never fires.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		v := rng.Float64()*2 - 1
		for v == 0 {
			v = rng.Float64()*2 - 1
		}
		out[i] = v * amplitude
	}
	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS[T core.Sample](x []T) float64 {
	if len(x) == 0 {
		return 0
	}

	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest magnitude in x.
func Peak[T core.Sample](x []T) float64 {
	var peak float64
	for _, v := range x {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	return peak
}
