// Package biquad describes second-order IIR sections by their transfer
// function coefficients.
//
// [Coefficients] follow the usual normalized form
//
//	H(z) = (B0 + B1*z^-1 + B2*z^-2) / (1 + A1*z^-1 + A2*z^-2)
//
// and offer frequency-response and pole/zero analysis. Runtime processing
// with state lives in dsp/filter/multimode; coefficient design lives in
// dsp/filter/design.
package biquad
