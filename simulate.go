package cdice

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SimOption configures SimulateProbabilisticSegmentation.
type SimOption func(*simConfig)

type simConfig struct {
	gridSize int
	mu       float64
	sigma    float64
	clamp    float64
}

func defaultSimConfig() simConfig {
	return simConfig{
		gridSize: 100,
		mu:       0.0,
		sigma:    2.0,
		clamp:    0.01,
	}
}

// WithGridSize sets the number of grid points per axis (default: 100).
func WithGridSize(n int) SimOption {
	return func(c *simConfig) {
		if n >= 2 {
			c.gridSize = n
		}
	}
}

// WithMean sets the radial offset of the Gaussian peak (default: 0).
func WithMean(mu float64) SimOption {
	return func(c *simConfig) {
		c.mu = mu
	}
}

// WithSigma sets the Gaussian width (default: 2).
func WithSigma(sigma float64) SimOption {
	return func(c *simConfig) {
		if sigma > 0 {
			c.sigma = sigma
		}
	}
}

// WithClamp sets the value below which probabilities are zeroed (default: 0.01).
func WithClamp(t float64) SimOption {
	return func(c *simConfig) {
		c.clamp = t
	}
}

// SimulateProbabilisticSegmentation builds a synthetic probability map: an
// isotropic Gaussian of the distance from the origin, sampled on a square
// grid spanning [start, end] on both axes. Columns follow x and rows follow y.
// Values below the clamp threshold are set to exactly 0.
func SimulateProbabilisticSegmentation(start, end float64, opts ...SimOption) *ProbabilityMap {
	cfg := defaultSimConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	n := cfg.gridSize
	axis := floats.Span(make([]float64, n), start, end)

	out := mat.NewDense(n, n, nil)
	twoSigmaSq := 2.0 * cfg.sigma * cfg.sigma
	for i, y := range axis {
		for j, x := range axis {
			d := math.Sqrt(x*x + y*y)
			v := math.Exp(-((d - cfg.mu) * (d - cfg.mu) / twoSigmaSq))
			if v < cfg.clamp {
				v = 0
			}
			out.Set(i, j, v)
		}
	}
	return &ProbabilityMap{m: out}
}

// Simulate returns a synthetic probability map together with the ground
// truth mask it was derived from: every cell that survived clamping.
func Simulate(start, end float64, opts ...SimOption) (*ProbabilityMap, *BinaryMap) {
	cfg := defaultSimConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := SimulateProbabilisticSegmentation(start, end, opts...)
	return p, GroundTruth(p, cfg.clamp)
}
