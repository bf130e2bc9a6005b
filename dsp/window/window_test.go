package window

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestGenerate_SymmetricEndpoints(t *testing.T) {
	tests := []struct {
		typ        Type
		edge, peak float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackmanHarris4Term, 0.00006, 1},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w := Generate(tt.typ, 65)

			if !almostEqual(w[0], tt.edge, 1e-12) || !almostEqual(w[64], tt.edge, 1e-12) {
				t.Fatalf("edges = %v, %v, want %v", w[0], w[64], tt.edge)
			}

			if !almostEqual(w[32], tt.peak, 1e-12) {
				t.Fatalf("center = %v, want %v", w[32], tt.peak)
			}

			for i := range 32 {
				if !almostEqual(w[i], w[64-i], 1e-12) {
					t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[64-i])
				}
			}
		})
	}
}

func TestGenerate_Periodic(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())

	want := []float64{0, 0.1464466094067262, 0.5, 0.8535533905932737, 1, 0.8535533905932737, 0.5, 0.1464466094067262}
	for i := range want {
		if !almostEqual(w[i], want[i], 1e-12) {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGenerate_Degenerate(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should return nil")
	}

	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("length 1 = %v", w)
	}

	if w := Generate(Type(99), 4); w[0] != 1 || w[3] != 1 {
		t.Fatalf("unknown type should be rectangular: %v", w)
	}
}

func TestCoherentGainMatchesMetadata(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackmanHarris4Term} {
		w := Generate(typ, 4096, WithPeriodic())

		cg, err := CoherentGain(w)
		if err != nil {
			t.Fatalf("%v: %v", typ, err)
		}

		if !almostEqual(cg, Info(typ).CoherentGain, 1e-9) {
			t.Errorf("%v coherent gain = %v, want %v", typ, cg, Info(typ).CoherentGain)
		}

		enbw, err := EquivalentNoiseBandwidth(w)
		if err != nil {
			t.Fatalf("%v: %v", typ, err)
		}

		if !almostEqual(enbw, Info(typ).ENBW, 2e-3) {
			t.Errorf("%v ENBW = %v, want %v", typ, enbw, Info(typ).ENBW)
		}
	}
}

func TestCoherentGainErrors(t *testing.T) {
	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}

	if _, err := EquivalentNoiseBandwidth([]float64{1, -1}); err == nil {
		t.Fatal("expected error for zero-sum coefficients")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 2, 0}

	dst := make([]float64, 4)
	if err := ApplyCoefficients(dst, samples, coeffs); err != nil {
		t.Fatal(err)
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatal(err)
	}

	for i, want := range []float64{0.5, 1, 6, 0} {
		if dst[i] != want || samples[i] != want {
			t.Fatalf("index %d: dst=%v in-place=%v, want %v", i, dst[i], samples[i], want)
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}

	if err := ApplyCoefficients(dst[:1], samples, coeffs); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestTypeString(t *testing.T) {
	if TypeHann.String() != "hann" || Type(42).String() != "Type(42)" {
		t.Fatalf("String() = %q, %q", TypeHann.String(), Type(42).String())
	}
}
