// Package cdice computes the continuous Dice coefficient between a binary
// reference segmentation and a probabilistic segmentation, alongside the
// classical Dice coefficient.
//
// # Quick Start
//
//	prob, truth := cdice.Simulate(-10, 10)
//
//	cdc, err := cdice.ContinuousDice(truth, prob)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dc, err := cdice.BinaryDice(truth, cdice.Threshold(prob, 0.01))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("cDC: %.2f  DC: %.2f\n", cdc, dc)
//
// # Empty Masks
//
// Both coefficients are undefined when the two inputs are entirely empty.
// They return ErrDegenerateInput instead of NaN.
//
// # Model Output
//
// Segmenter runs an ONNX segmentation model and turns its logits into a
// ProbabilityMap. It is safe for concurrent use and manages an internal pool
// of ONNX sessions, configurable via WithPoolSize.
package cdice
