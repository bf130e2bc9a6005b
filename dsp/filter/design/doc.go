// Package design provides closed-form coefficient designers for the filter
// kinds a multimode filter can switch between.
//
// Every designer maps (cutoff, Q, sample rate) to [biquad.Coefficients].
// First-order kinds leave the second taps at zero and ignore Q, as do the
// Butterworth lowpass and highpass.
//
// The resonant kinds (Lowpass, Highpass, Bandpass, Bandstop) are built from
// the beta/gamma/alpha parametrisation; the Butterworth kinds come from the
// bilinear transform with frequency prewarping.
package design
