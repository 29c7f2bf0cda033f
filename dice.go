package cdice

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ContinuousDice returns the continuous Dice coefficient between a binary
// reference segmentation and a probabilistic segmentation
// (Shamir et al., "Continuous Dice Coefficient: a Method for Evaluating
// Probabilistic Segmentations", 2018).
//
// The overlap truth∘prob is scaled by c, the mean overlap over cells where
// the overlap is positive:
//
//	cDC = 2·Σ(truth∘prob) / (c·Σtruth + Σprob)
//
// When prob is itself binary c is 1 and the result equals BinaryDice.
// Maps without overlap score 0. ErrDegenerateInput is returned when both
// maps are empty.
func ContinuousDice(truth *BinaryMap, prob *ProbabilityMap) (float64, error) {
	if truth == nil || prob == nil {
		return 0, ErrNilMap
	}
	if err := sameShape(truth.m, prob.m); err != nil {
		return 0, err
	}

	truthSum, probSum := truth.Sum(), prob.Sum()
	if truthSum == 0 && probSum == 0 {
		return 0, ErrDegenerateInput
	}

	overlap := product(truth.m, prob.m)
	sum := floats.Sum(overlap)
	if sum == 0 {
		// No overlap; c would be 0 and an empty prob would divide by zero.
		return 0, nil
	}

	positive := 0
	for _, v := range overlap {
		if v > 0 {
			positive++
		}
	}
	c := sum / float64(max(positive, 1))

	return 2 * sum / (c*truthSum + probSum), nil
}

// BinaryDice returns the classical Dice coefficient 2|a∩b| / (|a|+|b|).
// ErrDegenerateInput is returned when both masks are empty.
func BinaryDice(a, b *BinaryMap) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrNilMap
	}
	if err := sameShape(a.m, b.m); err != nil {
		return 0, err
	}

	denom := a.Sum() + b.Sum()
	if denom == 0 {
		return 0, ErrDegenerateInput
	}
	return 2 * floats.Sum(product(a.m, b.m)) / denom, nil
}

// Jaccard converts a Dice coefficient to the equivalent Jaccard index.
func Jaccard(dice float64) float64 {
	return dice / (2 - dice)
}

func sameShape(a, b *mat.Dense) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	return nil
}

// product returns the row-major elementwise product of a and b.
func product(a, b *mat.Dense) []float64 {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	out.MulElem(a, b)
	return out.RawMatrix().Data
}
