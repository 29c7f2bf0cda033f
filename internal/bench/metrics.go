package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	cdice "github.com/jamesainslie/go-cdice"
)

// ErrNoProbability indicates a case has neither a probability map nor an
// image a predictor could segment.
var ErrNoProbability = errors.New("bench: case has no probability map")

// Config holds evaluation parameters.
type Config struct {
	Step      int     // columns per simulated shift
	Shifts    int     // number of shifts after the unshifted baseline
	Threshold float64 // binarization threshold for the classical Dice
	Logger    *slog.Logger
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		Step:      2,
		Shifts:    4,
		Threshold: 0.01,
		Logger:    slog.Default(),
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Metrics holds both coefficients for one probability map.
type Metrics struct {
	Shift      int // columns the map was shifted by
	Continuous float64
	Binary     float64
}

// Predictor turns an image into a probability map.
// *cdice.Segmenter satisfies it.
type Predictor interface {
	Predict(ctx context.Context, image mat.Matrix) (*cdice.ProbabilityMap, error)
}

// Evaluate computes the continuous Dice of prob and the classical Dice of
// prob binarized at cfg.Threshold, both against truth.
func Evaluate(truth *cdice.BinaryMap, prob *cdice.ProbabilityMap, cfg Config) (Metrics, error) {
	cdc, err := cdice.ContinuousDice(truth, prob)
	if err != nil {
		return Metrics{}, fmt.Errorf("continuous dice: %w", err)
	}
	dc, err := cdice.BinaryDice(truth, cdice.Threshold(prob, cfg.Threshold))
	if err != nil {
		return Metrics{}, fmt.Errorf("binary dice: %w", err)
	}
	return Metrics{Continuous: cdc, Binary: dc}, nil
}

// EvaluateCase evaluates one corpus case. When pred is non-nil and the case
// carries an image, the probability map comes from the predictor; otherwise
// the case's stored probability map is used.
func EvaluateCase(ctx context.Context, pred Predictor, c *Case, cfg Config) (Metrics, error) {
	prob, err := ResolveProbability(ctx, pred, c)
	if err != nil {
		return Metrics{}, err
	}
	return Evaluate(c.Truth, prob, cfg)
}

// ResolveProbability returns the probability map to score for c.
func ResolveProbability(ctx context.Context, pred Predictor, c *Case) (*cdice.ProbabilityMap, error) {
	if pred != nil && c.Image != nil {
		prob, err := pred.Predict(ctx, c.Image)
		if err != nil {
			return nil, fmt.Errorf("predicting %s: %w", c.ID, err)
		}
		return prob, nil
	}
	if c.Probability == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoProbability, c.ID)
	}
	return c.Probability, nil
}

// Mean averages a set of metrics. The shift of the first entry is kept.
func Mean(ms []Metrics) Metrics {
	if len(ms) == 0 {
		return Metrics{}
	}
	out := Metrics{Shift: ms[0].Shift}
	for _, m := range ms {
		out.Continuous += m.Continuous
		out.Binary += m.Binary
	}
	out.Continuous /= float64(len(ms))
	out.Binary /= float64(len(ms))
	return out
}

// Degradation summarizes how both coefficients respond to growing shift.
type Degradation struct {
	// ContinuousMonotone is true when continuous Dice never increases.
	ContinuousMonotone bool
	// BinaryFaster is true when, at every shift, classical Dice has lost at
	// least as much as continuous Dice relative to the baseline.
	BinaryFaster bool

	ContinuousDrop float64 // baseline minus final continuous Dice
	BinaryDrop     float64 // baseline minus final classical Dice
}

// Degrade computes the Degradation of a shift sweep ordered by shift.
func Degrade(results []Metrics) Degradation {
	d := Degradation{ContinuousMonotone: true, BinaryFaster: true}
	if len(results) == 0 {
		return d
	}

	base := results[0]
	for i := 1; i < len(results); i++ {
		if results[i].Continuous > results[i-1].Continuous {
			d.ContinuousMonotone = false
		}
		if base.Binary-results[i].Binary < base.Continuous-results[i].Continuous {
			d.BinaryFaster = false
		}
	}

	last := results[len(results)-1]
	d.ContinuousDrop = base.Continuous - last.Continuous
	d.BinaryDrop = base.Binary - last.Binary
	return d
}
