package bench

import (
	"context"
	"math"
	"testing"

	cdice "github.com/jamesainslie/go-cdice"
)

func TestSweepThresholds(t *testing.T) {
	thresholds := SweepThresholds(0.01, 0.1, 0.02)

	want := []float64{0.01, 0.03, 0.05, 0.07, 0.09}
	if len(thresholds) != len(want) {
		t.Errorf("got %d thresholds, want %d", len(thresholds), len(want))
		t.Logf("got: %v", thresholds)
		return
	}

	for i := range want {
		if math.Abs(thresholds[i]-want[i]) > 1e-9 {
			t.Errorf("threshold[%d] = %v, want %v", i, thresholds[i], want[i])
		}
	}

	if got := SweepThresholds(0.1, 0.2, 0); got != nil {
		t.Errorf("SweepThresholds with zero step = %v, want nil", got)
	}
}

func TestShiftSweep_Phantom(t *testing.T) {
	prob, truth := cdice.Simulate(-10, 10)

	results, err := ShiftSweep(truth, prob, DefaultConfig())
	if err != nil {
		t.Fatalf("ShiftSweep() error = %v", err)
	}

	want := []Metrics{
		{Shift: 0, Continuous: 1, Binary: 1},
		{Shift: 2, Continuous: 0.977255696614938, Binary: 0.9578059071729957},
		{Shift: 4, Continuous: 0.9530033512575964, Binary: 0.9156118143459916},
		{Shift: 6, Continuous: 0.9269731234290878, Binary: 0.8734177215189873},
		{Shift: 8, Continuous: 0.8988568056307749, Binary: 0.8312236286919831},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i, w := range want {
		got := results[i]
		if got.Shift != w.Shift {
			t.Errorf("[%d] Shift = %d, want %d", i, got.Shift, w.Shift)
		}
		if math.Abs(got.Continuous-w.Continuous) > 1e-9 {
			t.Errorf("[%d] Continuous = %v, want %v", i, got.Continuous, w.Continuous)
		}
		if math.Abs(got.Binary-w.Binary) > 1e-9 {
			t.Errorf("[%d] Binary = %v, want %v", i, got.Binary, w.Binary)
		}
	}

	d := Degrade(results)
	if !d.ContinuousMonotone {
		t.Error("continuous Dice increased under shift")
	}
	if !d.BinaryFaster {
		t.Error("classical Dice degraded slower than continuous Dice")
	}
}

func TestShiftSweep_DoesNotMutateInput(t *testing.T) {
	prob, truth := cdice.Simulate(-10, 10, cdice.WithGridSize(30))
	before := prob.Data()

	if _, err := ShiftSweep(truth, prob, DefaultConfig()); err != nil {
		t.Fatalf("ShiftSweep() error = %v", err)
	}

	after := prob.Data()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("probability map mutated at %d", i)
		}
	}
}

func TestSweep(t *testing.T) {
	truth := mustBinary(t, 1, 4, []float64{1, 1, 0, 0})
	cases := []*Case{
		{ID: "a", Truth: truth, Probability: mustProbability(t, 1, 4, []float64{0.9, 0.6, 0.3, 0})},
		{ID: "b", Truth: truth, Probability: mustProbability(t, 1, 4, []float64{0.7, 0.4, 0.1, 0})},
	}

	results, err := Sweep(context.Background(), nil, cases, DefaultConfig(), []float64{0.05, 0.35, 0.65})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// At 0.35 both cases binarize to exactly the truth.
	best := results[0]
	if best.Threshold != 0.35 {
		t.Errorf("best threshold = %v, want 0.35", best.Threshold)
	}
	if math.Abs(best.Binary-1) > 1e-12 {
		t.Errorf("best Binary = %v, want 1", best.Binary)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Binary > results[i-1].Binary {
			t.Errorf("results not sorted at %d", i)
		}
		if results[i].Continuous != best.Continuous {
			t.Errorf("continuous Dice varies with threshold")
		}
	}
	if best.Gap() > 0 {
		t.Errorf("Gap() = %v, want <= 0 when binarization is perfect", best.Gap())
	}
}

func TestSweep_Empty(t *testing.T) {
	results, err := Sweep(context.Background(), nil, nil, DefaultConfig(), []float64{0.5})
	if err != nil || results != nil {
		t.Errorf("Sweep(empty) = %v, %v; want nil, nil", results, err)
	}
}
