package cdice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/jamesainslie/go-cdice/inference"
)

// Segmenter produces probability maps by running an ONNX segmentation model.
// The model takes a single-channel image and emits one logit per pixel.
// It is safe for concurrent use.
type Segmenter struct {
	pool      *inference.Pool
	threshold float64
	logger    *slog.Logger
}

// NewSegmenter creates a Segmenter for the model at modelPath.
func NewSegmenter(modelPath string, opts ...Option) (*Segmenter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	pool, err := inference.NewPool(modelPath, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	cfg.logger.Debug("segmentation model loaded", "path", modelPath, "sessions", pool.Size())

	return &Segmenter{
		pool:      pool,
		threshold: cfg.threshold,
		logger:    cfg.logger,
	}, nil
}

// Predict runs the model on image and returns the per-pixel foreground
// probability.
func (s *Segmenter) Predict(ctx context.Context, image mat.Matrix) (*ProbabilityMap, error) {
	if image == nil {
		return nil, ErrNilMap
	}
	rows, cols := image.Dims()

	pixels := make([]float32, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			pixels = append(pixels, float32(image.At(i, j)))
		}
	}

	session, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Release(session)

	logits, err := session.Infer(ctx, pixels, rows, cols)
	if err != nil {
		return nil, err
	}

	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = sigmoid(l)
	}
	s.logger.Debug("segmentation inferred", "rows", rows, "cols", cols)

	return &ProbabilityMap{m: mat.NewDense(rows, cols, probs)}, nil
}

// Binarize runs Predict and thresholds the result at the configured threshold.
func (s *Segmenter) Binarize(ctx context.Context, image mat.Matrix) (*BinaryMap, error) {
	p, err := s.Predict(ctx, image)
	if err != nil {
		return nil, err
	}
	return Threshold(p, s.threshold), nil
}

// Threshold returns the binarization threshold.
func (s *Segmenter) Threshold() float64 {
	return s.threshold
}

// Close releases all resources.
func (s *Segmenter) Close() error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

func sigmoid(x float32) float64 {
	return 1.0 / (1.0 + math.Exp(float64(-x)))
}
