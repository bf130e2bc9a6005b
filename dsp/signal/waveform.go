package signal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownWaveform is returned when a waveform outside the supported set
// is requested.
var ErrUnknownWaveform = errors.New("signal: unknown waveform")

// Waveform selects the oscillator generation algorithm.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Triangle
	Square
	WhiteNoise
	PinkNoise

	numWaveforms
)

var waveformNames = [numWaveforms]string{
	Sine:       "sine",
	Sawtooth:   "saw",
	Triangle:   "triangle",
	Square:     "square",
	WhiteNoise: "white",
	PinkNoise:  "pink",
}

// Valid reports whether w is one of the supported waveforms.
func (w Waveform) Valid() bool {
	return w >= 0 && w < numWaveforms
}

// String returns the short name of the waveform.
func (w Waveform) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// Periodic reports whether the waveform depends on the oscillator frequency.
func (w Waveform) Periodic() bool {
	return w == Sine || w == Sawtooth || w == Triangle || w == Square
}

// Waveforms returns all supported waveforms in selection order.
func Waveforms() []Waveform {
	out := make([]Waveform, numWaveforms)
	for i := range out {
		out[i] = Waveform(i)
	}
	return out
}

// ParseWaveform maps a name as returned by [Waveform.String] (case
// insensitive, "sawtooth" and "tri" accepted as aliases) to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "saw", "sawtooth":
		return Sawtooth, nil
	case "triangle", "tri":
		return Triangle, nil
	case "square", "sqr":
		return Square, nil
	case "white", "whitenoise":
		return WhiteNoise, nil
	case "pink", "pinknoise":
		return PinkNoise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
	}
}
