//go:build ignore

// Generate a synthetic benchmark corpus of Gaussian phantoms.
// Writes binary ground truth and probability maps plus a manifest.yaml.
// Usage: go run ./scripts/make-phantoms.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	cdice "github.com/jamesainslie/go-cdice"
	"github.com/jamesainslie/go-cdice/internal/bench"
	"github.com/jamesainslie/go-cdice/mapio"
)

// phantom describes one generated case.
type phantom struct {
	id    string
	mu    float64
	sigma float64
	shift int // columns the probability map is displaced from its truth
}

func main() {
	outDir := "testdata/phantoms"

	phantoms := []phantom{
		{id: "disc-s2", mu: 0, sigma: 2},
		{id: "disc-s1.5", mu: 0, sigma: 1.5},
		{id: "disc-s3", mu: 0, sigma: 3},
		{id: "ring-r4", mu: 4, sigma: 1},
		{id: "disc-s2-offset", mu: 0, sigma: 2, shift: 3},
		{id: "ring-r4-offset", mu: 4, sigma: 1, shift: -2},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outDir, err)
		os.Exit(1)
	}

	manifest := bench.Manifest{Name: "phantoms"}
	for _, p := range phantoms {
		spec, err := writePhantom(outDir, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", p.id, err)
			os.Exit(1)
		}
		manifest.Cases = append(manifest.Cases, spec)
		fmt.Printf("  -> %s (mu=%.1f, sigma=%.1f, shift=%d)\n", p.id, p.mu, p.sigma, p.shift)
	}

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding manifest: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(outDir, bench.ManifestFile), data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDone! %d cases written to %s/\n", len(phantoms), outDir)
}

func writePhantom(dir string, p phantom) (bench.CaseSpec, error) {
	prob, truth := cdice.Simulate(-10, 10, cdice.WithMean(p.mu), cdice.WithSigma(p.sigma))
	if p.shift != 0 {
		prob = cdice.ShiftColumns(prob, p.shift)
	}

	spec := bench.CaseSpec{
		ID:          p.id,
		Source:      "synthetic",
		Truth:       p.id + ".truth.pmap",
		Probability: p.id + ".prob.pmap",
	}
	if err := mapio.Save(filepath.Join(dir, spec.Truth), mapio.KindBinary, truth.Matrix()); err != nil {
		return spec, err
	}
	if err := mapio.Save(filepath.Join(dir, spec.Probability), mapio.KindProbability, prob.Matrix()); err != nil {
		return spec, err
	}
	return spec, nil
}
