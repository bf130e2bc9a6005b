package design

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for kinds outside the supported set.
var ErrUnknownKind = errors.New("design: unknown filter kind")

// Kind identifies a filter response.
//
// The zero value is Bypass, the identity section.
type Kind int

const (
	Bypass Kind = iota
	FirstOrderLowpass
	FirstOrderHighpass
	Lowpass
	Highpass
	Bandpass
	Bandstop
	ButterworthLowpass
	ButterworthHighpass
	ButterworthBandpass
	ButterworthBandstop

	numKinds
)

var kindNames = [numKinds]string{
	Bypass:              "bypass",
	FirstOrderLowpass:   "lpf1",
	FirstOrderHighpass:  "hpf1",
	Lowpass:             "lpf",
	Highpass:            "hpf",
	Bandpass:            "bpf",
	Bandstop:            "bsf",
	ButterworthLowpass:  "butter-lpf",
	ButterworthHighpass: "butter-hpf",
	ButterworthBandpass: "butter-bpf",
	ButterworthBandstop: "butter-bsf",
}

// Valid reports whether k is Bypass or one of the ten filter kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// UsesQ reports whether the design of k depends on the quality factor.
func (k Kind) UsesQ() bool {
	switch k {
	case Lowpass, Highpass, Bandpass, Bandstop, ButterworthBandpass, ButterworthBandstop:
		return true
	default:
		return false
	}
}

// Kinds returns the ten designable kinds in selection order. Bypass is not
// included.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := FirstOrderLowpass; k < numKinds; k++ {
		out = append(out, k)
	}

	return out
}

// ParseKind maps a name as returned by [Kind.String] back to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}

	return Bypass, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
