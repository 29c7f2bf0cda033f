package bench

import (
	"context"
	"fmt"
	"sort"

	cdice "github.com/jamesainslie/go-cdice"
)

// ShiftSweep scores prob against truth unshifted and then after each of
// cfg.Shifts cumulative shifts of cfg.Step columns, zero filled.
func ShiftSweep(truth *cdice.BinaryMap, prob *cdice.ProbabilityMap, cfg Config) ([]Metrics, error) {
	log := cfg.logger()
	results := make([]Metrics, 0, cfg.Shifts+1)

	for i := 0; i <= cfg.Shifts; i++ {
		shift := i * cfg.Step
		m, err := Evaluate(truth, cdice.ShiftColumns(prob, shift), cfg)
		if err != nil {
			return nil, fmt.Errorf("shift %d: %w", shift, err)
		}
		m.Shift = shift
		log.Debug("shift evaluated", "shift", shift, "continuous", m.Continuous, "binary", m.Binary)
		results = append(results, m)
	}

	return results, nil
}

// SweepResult holds corpus-mean scores for one binarization threshold.
type SweepResult struct {
	Threshold  float64
	Binary     float64 // mean classical Dice after binarizing at Threshold
	Continuous float64 // mean continuous Dice; independent of Threshold
}

// Gap returns how far classical Dice falls below continuous Dice.
func (r SweepResult) Gap() float64 {
	return r.Continuous - r.Binary
}

// SweepThresholds generates threshold values from min up to, but excluding,
// max with the given step.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var thresholds []float64
	for i := 0; ; i++ {
		t := min + float64(i)*step
		if t >= max {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates every threshold over the corpus and returns results sorted
// by mean classical Dice, best first.
func Sweep(ctx context.Context, pred Predictor, cases []*Case, cfg Config, thresholds []float64) ([]SweepResult, error) {
	if len(cases) == 0 {
		return nil, nil
	}

	// Probability maps do not depend on the threshold; resolve them once.
	probs := make([]*cdice.ProbabilityMap, len(cases))
	var continuous float64
	for i, c := range cases {
		prob, err := ResolveProbability(ctx, pred, c)
		if err != nil {
			return nil, err
		}
		probs[i] = prob

		cdc, err := cdice.ContinuousDice(c.Truth, prob)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.ID, err)
		}
		continuous += cdc
	}
	continuous /= float64(len(cases))

	results := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		var total float64
		for i, c := range cases {
			dc, err := cdice.BinaryDice(c.Truth, cdice.Threshold(probs[i], threshold))
			if err != nil {
				return nil, fmt.Errorf("case %s at threshold %.3f: %w", c.ID, threshold, err)
			}
			total += dc
		}
		results = append(results, SweepResult{
			Threshold:  threshold,
			Binary:     total / float64(len(cases)),
			Continuous: continuous,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Binary > results[j].Binary
	})

	return results, nil
}
