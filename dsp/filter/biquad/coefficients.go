package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). The denominator's leading term is
// normalized to 1 and not stored.
//
// In the difference equation
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
//
// B0, B1, B2 are the feed-forward taps (often written a0, a1, a2) and A1, A2
// the feedback taps (often written b1, b2).
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Passthrough returns the identity section (B0 = 1, everything else 0).
func Passthrough() Coefficients {
	return Coefficients{B0: 1}
}

// Scaled returns c with its numerator multiplied by gain.
func (c Coefficients) Scaled(gain float64) Coefficients {
	c.B0 *= gain
	c.B1 *= gain
	c.B2 *= gain
	return c
}

// FirstOrder reports whether the section degenerates to a first-order
// filter (no second tap on either side).
func (c Coefficients) FirstOrder() bool {
	return c.B2 == 0 && c.A2 == 0
}
