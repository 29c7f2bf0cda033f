package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	cdice "github.com/jamesainslie/go-cdice"
	"github.com/jamesainslie/go-cdice/mapio"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		want    int
	}{
		{
			name: "valid",
			input: `name: phantoms
cases:
  - id: p1
    source: synthetic
    truth: p1.truth.pmap
    probability: p1.prob.pmap
  - id: p2
    source: synthetic
    truth: p2.truth.pmap
    image: p2.image.pmap
`,
			want: 2,
		},
		{
			name: "missing source",
			input: `cases:
  - id: p1
    truth: t.pmap
    probability: p.pmap
`,
			wantErr: "missing source",
		},
		{
			name: "duplicate id",
			input: `cases:
  - {id: p1, source: s, truth: t.pmap, probability: p.pmap}
  - {id: p1, source: s, truth: t.pmap, probability: p.pmap}
`,
			wantErr: "duplicate id",
		},
		{
			name: "nothing to score",
			input: `cases:
  - {id: p1, source: s, truth: t.pmap}
`,
			wantErr: "needs probability or image",
		},
		{
			name:    "not yaml",
			input:   "cases: [",
			wantErr: "parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseManifest() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseManifest() error = %v", err)
			}
			if len(got.Cases) != tt.want {
				t.Errorf("got %d cases, want %d", len(got.Cases), tt.want)
			}
		})
	}
}

// writeCorpus writes a one-case corpus with a probability map and an image.
func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prob, truth := cdice.Simulate(-10, 10, cdice.WithGridSize(20))
	files := []struct {
		name string
		kind mapio.Kind
		m    mat.Matrix
	}{
		{"p1.truth.pmap", mapio.KindBinary, truth.Matrix()},
		{"p1.prob.pmap", mapio.KindProbability, prob.Matrix()},
		{"p1.image.pmap", mapio.KindImage, mat.NewDense(20, 20, nil)},
	}
	for _, f := range files {
		if err := mapio.Save(filepath.Join(dir, f.name), f.kind, f.m); err != nil {
			t.Fatalf("Save(%s): %v", f.name, err)
		}
	}

	manifest := `name: test
cases:
  - id: p1
    source: synthetic
    truth: p1.truth.pmap
    probability: p1.prob.pmap
    image: p1.image.pmap
`
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}

func TestLoadCorpus(t *testing.T) {
	dir := writeCorpus(t)

	cases, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(cases))
	}

	c := cases[0]
	if c.ID != "p1" || c.Source != "synthetic" {
		t.Errorf("case = %s/%s, want p1/synthetic", c.ID, c.Source)
	}
	if c.Probability == nil || c.Image == nil {
		t.Fatal("expected probability and image to be loaded")
	}
	if r, cols := c.Truth.Dims(); r != 20 || cols != 20 {
		t.Errorf("truth dims = %dx%d, want 20x20", r, cols)
	}

	m, err := Evaluate(c.Truth, c.Probability, DefaultConfig())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if m.Binary != 1 {
		t.Errorf("Binary = %v, want 1 for unshifted phantom", m.Binary)
	}
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	dir := writeCorpus(t)
	if err := os.Remove(filepath.Join(dir, "p1.prob.pmap")); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCorpus(dir); err == nil {
		t.Error("expected error for missing probability file")
	}
}

func TestLoadCorpus_NoManifest(t *testing.T) {
	if _, err := LoadCorpus(t.TempDir()); err == nil {
		t.Error("expected error for missing manifest")
	}
}
