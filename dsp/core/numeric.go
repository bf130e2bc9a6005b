package core

import "math"

const defaultEpsilon = 1e-12

// SmallestNormal is the smallest positive normal float64 (2^-1022).
// Magnitudes below it are subnormal.
const SmallestNormal = 0x1p-1022

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushSubnormal returns 0 for any x with 0 < |x| < SmallestNormal and x
// otherwise. Feedback paths that decay towards zero stay out of the slow
// subnormal range this way.
func FlushSubnormal(x float64) float64 {
	if x != 0 && math.Abs(x) < SmallestNormal {
		return 0
	}

	return x
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
