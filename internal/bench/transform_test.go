package bench

import (
	"math"
	"testing"
)

func TestTransformRoundTrip(t *testing.T) {
	defaults := []float64{1.0, 2.0, 4.0}
	original := Original{2.0, 0.5, 3.7}

	for _, useScale := range []bool{false, true} {
		for _, useLog := range []bool{false, true} {
			logTransform := []bool{useLog, useLog, useLog}
			tr, err := NewTransform(defaults, logTransform, useScale)
			if err != nil {
				t.Fatalf("NewTransform(scale=%t, log=%t): %v", useScale, useLog, err)
			}

			x, err := tr.ToInput(original)
			if err != nil {
				t.Fatalf("ToInput(scale=%t, log=%t): %v", useScale, useLog, err)
			}
			back, err := tr.ToOriginal(x)
			if err != nil {
				t.Fatalf("ToOriginal(scale=%t, log=%t): %v", useScale, useLog, err)
			}
			for i := range original {
				if relDiff(back[i], original[i]) > 1e-10 {
					t.Errorf("round trip (scale=%t, log=%t) parameter %d: got %g, want %g",
						useScale, useLog, i, back[i], original[i])
				}
			}
		}
	}
}

func TestTransformMixedFlags(t *testing.T) {
	tr, err := NewTransform([]float64{2.0, 3.0}, []bool{true, false}, true)
	if err != nil {
		t.Fatal(err)
	}
	original := Original{4.0, 6.0}
	x, err := tr.ToInput(original)
	if err != nil {
		t.Fatal(err)
	}
	// 4/2=2 then log(2); 6/3=2 with no log.
	if relDiff(x[0], math.Log(2)) > 1e-12 {
		t.Errorf("x[0] = %g, want log(2)", x[0])
	}
	if x[1] != 2.0 {
		t.Errorf("x[1] = %g, want 2", x[1])
	}
	back, err := tr.ToOriginal(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range original {
		if relDiff(back[i], original[i]) > 1e-10 {
			t.Errorf("round trip parameter %d: got %g, want %g", i, back[i], original[i])
		}
	}
}

func TestTransformIdentity(t *testing.T) {
	tr, err := NewTransform([]float64{1.0, 2.0}, []bool{false, false}, false)
	if err != nil {
		t.Fatal(err)
	}
	x, err := tr.ToInput(Original{1.0, 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if x[0] != 1.0 || x[1] != 2.0 {
		t.Errorf("identity transform changed values: %v", x)
	}
}

func TestTransformScaleFactor(t *testing.T) {
	tr, err := NewTransform([]float64{2.0}, []bool{false}, true)
	if err != nil {
		t.Fatal(err)
	}
	x, err := tr.ToInput(Original{2.0})
	if err != nil {
		t.Fatal(err)
	}
	if x[0] != 1.0 {
		t.Errorf("ToInput([2]) = %v, want [1]", x)
	}
	p, err := tr.ToOriginal(Input{1.0})
	if err != nil {
		t.Fatal(err)
	}
	if p[0] != 2.0 {
		t.Errorf("ToOriginal([1]) = %v, want [2]", p)
	}
}

func TestTransformLogOfNonPositive(t *testing.T) {
	tr, err := NewTransform([]float64{1.0}, []bool{true}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.ToInput(Original{-1.0}); err == nil {
		t.Error("expected error for log of negative value")
	}
	if _, err := tr.ToInput(Original{0.0}); err == nil {
		t.Error("expected error for log of zero")
	}
}

func TestTransformNonFiniteResult(t *testing.T) {
	tr, err := NewTransform([]float64{1.0}, []bool{true}, false)
	if err != nil {
		t.Fatal(err)
	}
	// exp(1e300) overflows to +Inf.
	if _, err := tr.ToOriginal(Input{1e300}); err == nil {
		t.Error("expected error for non-finite original-space value")
	}
}

func TestNewTransformValidation(t *testing.T) {
	if _, err := NewTransform([]float64{1, 2}, []bool{true}, false); err == nil {
		t.Error("expected error for mismatched logTransform length")
	}
	if _, err := NewTransform([]float64{math.NaN()}, []bool{false}, false); err == nil {
		t.Error("expected error for NaN default")
	}
	if _, err := NewTransform([]float64{0}, []bool{false}, true); err == nil {
		t.Error("expected error for zero default with scale factors")
	}
}

func TestTransformLengthMismatch(t *testing.T) {
	tr, err := NewTransform([]float64{1, 2}, []bool{false, false}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.ToInput(Original{1.0}); err == nil {
		t.Error("expected error for short vector in ToInput")
	}
	if _, err := tr.ToOriginal(Input{1.0, 2.0, 3.0}); err == nil {
		t.Error("expected error for long vector in ToOriginal")
	}
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		return math.Abs(a)
	}
	return math.Abs(a-b) / math.Abs(b)
}
