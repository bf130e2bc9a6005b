// Package multimode provides a single biquad section whose response can be
// switched at run time between the kinds of the design package.
//
// Reconfiguration is lazy: SetCutoff, SetQ and SetGain only record the new
// value. The coefficients are redesigned when SetKind selects a kind that
// differs from the active one. Selecting the active kind again does
// nothing, which is observable through Reconfigurations.
//
// ProcessSample runs the Direct Form I difference equation
//
//	y = g*(a0*x + a1*x1 + a2*x2) - b1*y1 - b2*y2
//
// then flushes subnormal results to zero, clears the output history when
// the input sample is exactly zero and returns the equal blend (y+x)/2 of
// filtered and dry signal.
package multimode
