// Package bench provides benchmarking utilities for segmentation metrics.
package bench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	cdice "github.com/jamesainslie/go-cdice"
	"github.com/jamesainslie/go-cdice/mapio"
)

// ManifestFile is the manifest name LoadCorpus looks for.
const ManifestFile = "manifest.yaml"

// Manifest describes a corpus of segmentation cases.
type Manifest struct {
	Name  string     `yaml:"name"`
	Cases []CaseSpec `yaml:"cases"`
}

// CaseSpec is one manifest entry. Paths are relative to the manifest.
type CaseSpec struct {
	ID          string `yaml:"id"`
	Source      string `yaml:"source"`
	Truth       string `yaml:"truth"`
	Probability string `yaml:"probability,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Cases))
	for i, c := range m.Cases {
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("case %d: missing id", i)
		case seen[c.ID]:
			return nil, fmt.Errorf("case %s: duplicate id", c.ID)
		case c.Source == "":
			return nil, fmt.Errorf("case %s: missing source", c.ID)
		case c.Truth == "":
			return nil, fmt.Errorf("case %s: missing truth", c.ID)
		case c.Probability == "" && c.Image == "":
			return nil, fmt.Errorf("case %s: needs probability or image", c.ID)
		}
		seen[c.ID] = true
	}

	return &m, nil
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Case is a loaded corpus entry.
type Case struct {
	ID          string
	Source      string
	Truth       *cdice.BinaryMap
	Probability *cdice.ProbabilityMap // nil when only an image is given
	Image       *mat.Dense            // nil when no image is given
}

// LoadCase loads the map files of spec, resolving paths against dir.
func LoadCase(dir string, spec CaseSpec) (*Case, error) {
	truth, err := mapio.LoadBinary(filepath.Join(dir, spec.Truth))
	if err != nil {
		return nil, fmt.Errorf("truth: %w", err)
	}

	c := &Case{
		ID:     spec.ID,
		Source: spec.Source,
		Truth:  truth,
	}

	if spec.Probability != "" {
		if c.Probability, err = mapio.LoadProbability(filepath.Join(dir, spec.Probability)); err != nil {
			return nil, fmt.Errorf("probability: %w", err)
		}
	}
	if spec.Image != "" {
		if c.Image, err = mapio.LoadImage(filepath.Join(dir, spec.Image)); err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
	}

	return c, nil
}

// LoadCorpus loads every case listed in dir/manifest.yaml.
func LoadCorpus(dir string) ([]*Case, error) {
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	if len(manifest.Cases) == 0 {
		return nil, errors.New("manifest lists no cases")
	}

	cases := make([]*Case, 0, len(manifest.Cases))
	for _, spec := range manifest.Cases {
		c, err := LoadCase(dir, spec)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", spec.ID, err)
		}
		cases = append(cases, c)
	}

	return cases, nil
}
