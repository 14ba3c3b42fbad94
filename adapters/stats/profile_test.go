package stats

import (
	"math"
	"testing"
)

func TestProfile_MissingnessAndSpread(t *testing.T) {
	nan := math.NaN()
	p := Profile([]float64{1, 2, 3, nan, nan, nan, nan})

	if p.N != 7 || p.Missing != 4 {
		t.Fatalf("got N=%d missing=%d", p.N, p.Missing)
	}
	if math.Abs(p.MissingRate-4.0/7.0) > 1e-12 {
		t.Fatalf("missing rate: got %v", p.MissingRate)
	}
	if !p.HighMissing() {
		t.Fatal("4/7 missing should clear the high-missing threshold")
	}
	if math.Abs(p.Mean-2) > 1e-12 || math.Abs(p.Median-2) > 1e-12 {
		t.Fatalf("got mean=%v median=%v", p.Mean, p.Median)
	}
}

func TestProfile_ConstantVector(t *testing.T) {
	p := Profile([]float64{5, 5, 5, 5})
	if !p.Constant() {
		t.Fatal("zero-variance vector should profile as constant")
	}
	if p.HighMissing() {
		t.Fatal("complete vector is not high-missing")
	}
}

func TestProfile_AllMissing(t *testing.T) {
	nan := math.NaN()
	p := Profile([]float64{nan, nan})
	if !math.IsNaN(p.Mean) || !math.IsNaN(p.Variance) {
		t.Fatalf("all-missing vector should profile as NaN, got mean=%v var=%v", p.Mean, p.Variance)
	}
	if p.Constant() {
		t.Fatal("all-missing vector is not constant")
	}
}
