package cdice

import (
	"math"
	"testing"
)

func TestSimulateProbabilisticSegmentation(t *testing.T) {
	p := SimulateProbabilisticSegmentation(-10, 10)

	r, c := p.Dims()
	if r != 100 || c != 100 {
		t.Fatalf("Dims() = %dx%d, want 100x100", r, c)
	}

	// Grid points nearest the origin are (±10/99, ±10/99).
	d := math.Sqrt(2) * 10.0 / 99.0
	if want := math.Exp(-d * d / 8); math.Abs(p.At(49, 49)-want) > 1e-12 {
		t.Errorf("At(49, 49) = %v, want %v", p.At(49, 49), want)
	}
	if p.At(0, 0) != 0 || p.At(99, 50) != 0 {
		t.Error("expected the tail to be clamped to zero")
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := p.At(i, j)
			if v != 0 && v < 0.01 {
				t.Fatalf("At(%d, %d) = %v survived clamping", i, j, v)
			}
			if v > 1 {
				t.Fatalf("At(%d, %d) = %v exceeds 1", i, j, v)
			}
			if v != p.At(j, i) {
				t.Fatalf("map not symmetric at (%d, %d)", i, j)
			}
		}
	}
}

func TestSimulate_Options(t *testing.T) {
	p := SimulateProbabilisticSegmentation(-5, 5,
		WithGridSize(11),
		WithMean(2),
		WithSigma(1),
		WithClamp(0),
	)

	if r, c := p.Dims(); r != 11 || c != 11 {
		t.Fatalf("Dims() = %dx%d, want 11x11", r, c)
	}
	// Ring peak: distance 2 from the origin is maximal.
	if p.At(5, 7) != 1 {
		t.Errorf("At(5, 7) = %v, want 1 on the ring", p.At(5, 7))
	}
	if p.At(5, 5) >= p.At(5, 7) {
		t.Error("centre should be below the ring")
	}
	if p.At(0, 0) == 0 {
		t.Error("clamp of 0 should keep the tail")
	}

	// Invalid values are ignored.
	q := SimulateProbabilisticSegmentation(-1, 1, WithGridSize(1), WithSigma(-3))
	if r, _ := q.Dims(); r != 100 {
		t.Errorf("grid size = %d, want default 100", r)
	}
}

func TestSimulate_GroundTruth(t *testing.T) {
	prob, truth := Simulate(-10, 10)

	if got := truth.Sum(); got != 2844 {
		t.Errorf("ground truth area = %v, want 2844", got)
	}

	// At zero shift the thresholded map is the ground truth itself, so both
	// coefficients reach 1.
	cdc, err := ContinuousDice(truth, prob)
	if err != nil {
		t.Fatalf("ContinuousDice() error = %v", err)
	}
	dc, err := BinaryDice(truth, Threshold(prob, 0.01))
	if err != nil {
		t.Fatalf("BinaryDice() error = %v", err)
	}
	if math.Abs(cdc-1) > 1e-9 {
		t.Errorf("ContinuousDice() = %v, want 1", cdc)
	}
	if dc != 1 {
		t.Errorf("BinaryDice() = %v, want 1", dc)
	}
	if math.Abs(cdc-dc) > 1e-9 {
		t.Errorf("ContinuousDice() = %v differs from BinaryDice() = %v", cdc, dc)
	}
}
