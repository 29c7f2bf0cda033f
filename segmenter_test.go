package cdice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const testModelPath = "testdata/segmenter.onnx"

// skipIfNoModel skips the test if the ONNX model is not available.
func skipIfNoModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: ONNX model not available at %s", testModelPath)
	}
}

func TestNewSegmenter_ModelNotFound(t *testing.T) {
	_, err := NewSegmenter("nonexistent/model.onnx")
	if err == nil {
		t.Fatal("expected error for nonexistent model")
	}
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got: %v", err)
	}
}

func TestNewSegmenter_InvalidModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake_model.onnx")
	if err := os.WriteFile(path, []byte("not a model"), 0o644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	_, err := NewSegmenter(path, WithPoolSize(1))
	if err == nil {
		t.Fatal("expected error for invalid model")
	}
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel, got: %v", err)
	}
}

func TestSegmenter_Predict(t *testing.T) {
	skipIfNoModel(t)

	seg, err := NewSegmenter(testModelPath, WithPoolSize(1), WithThreshold(0.3))
	if err != nil {
		t.Skipf("Skipping: segmenter unavailable: %v", err)
	}
	defer func() { _ = seg.Close() }()

	if seg.Threshold() != 0.3 {
		t.Errorf("Threshold() = %v, want 0.3", seg.Threshold())
	}

	image := mat.NewDense(16, 16, nil)
	for i := 4; i < 12; i++ {
		for j := 4; j < 12; j++ {
			image.Set(i, j, 1)
		}
	}

	prob, err := seg.Predict(context.Background(), image)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if r, c := prob.Dims(); r != 16 || c != 16 {
		t.Errorf("Dims() = %dx%d, want 16x16", r, c)
	}
	for _, v := range prob.Data() {
		if v < 0 || v > 1 {
			t.Fatalf("probability %v outside [0, 1]", v)
		}
	}

	mask, err := seg.Binarize(context.Background(), image)
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	if !mask.Equal(Threshold(prob, 0.3)) {
		t.Error("Binarize() differs from thresholding Predict()")
	}
}

func TestSegmenter_PredictNil(t *testing.T) {
	seg := &Segmenter{}
	if _, err := seg.Predict(context.Background(), nil); !errors.Is(err, ErrNilMap) {
		t.Errorf("Predict(nil) error = %v, want ErrNilMap", err)
	}
	if err := seg.Close(); err != nil {
		t.Errorf("Close() on empty segmenter: %v", err)
	}
}

func TestSigmoid(t *testing.T) {
	if got := sigmoid(0); got != 0.5 {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}
	if got := sigmoid(40); got <= 0.99 || got > 1 {
		t.Errorf("sigmoid(40) = %v, want close to 1", got)
	}
}
