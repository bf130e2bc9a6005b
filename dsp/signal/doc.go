// Package signal provides sample-by-sample waveform synthesis.
//
// An [Oscillator] produces one sample per call for one of six [Waveform]
// kinds. Periodic waveforms use a phase accumulator (sine, square) or a
// bipolar ramp (sawtooth, triangle); noise waveforms draw from a private,
// seedable random source so runs are reproducible.
package signal
