package cdice

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BinaryMap is a 2D segmentation mask whose entries are 0 or 1.
// A BinaryMap is immutable once constructed.
type BinaryMap struct {
	m *mat.Dense
}

// ProbabilityMap is a 2D per-cell membership probability in [0, 1].
// A ProbabilityMap is immutable once constructed.
type ProbabilityMap struct {
	m *mat.Dense
}

// NewBinaryMap creates a rows×cols binary map from row-major data.
// The data is copied.
func NewBinaryMap(rows, cols int, data []float64) (*BinaryMap, error) {
	d, err := newDense(rows, cols, data)
	if err != nil {
		return nil, err
	}
	if err := checkBinary(d); err != nil {
		return nil, err
	}
	return &BinaryMap{m: d}, nil
}

// BinaryFromMatrix copies m into a binary map.
func BinaryFromMatrix(m mat.Matrix) (*BinaryMap, error) {
	d, err := denseCopy(m)
	if err != nil {
		return nil, err
	}
	if err := checkBinary(d); err != nil {
		return nil, err
	}
	return &BinaryMap{m: d}, nil
}

// NewProbabilityMap creates a rows×cols probability map from row-major data.
// The data is copied.
func NewProbabilityMap(rows, cols int, data []float64) (*ProbabilityMap, error) {
	d, err := newDense(rows, cols, data)
	if err != nil {
		return nil, err
	}
	if err := checkProbability(d); err != nil {
		return nil, err
	}
	return &ProbabilityMap{m: d}, nil
}

// ProbabilityFromMatrix copies m into a probability map.
func ProbabilityFromMatrix(m mat.Matrix) (*ProbabilityMap, error) {
	d, err := denseCopy(m)
	if err != nil {
		return nil, err
	}
	if err := checkProbability(d); err != nil {
		return nil, err
	}
	return &ProbabilityMap{m: d}, nil
}

// Dims returns the number of rows and columns.
func (b *BinaryMap) Dims() (r, c int) { return b.m.Dims() }

// At returns the entry at row i, column j.
func (b *BinaryMap) At(i, j int) float64 { return b.m.At(i, j) }

// Sum returns the number of foreground cells.
func (b *BinaryMap) Sum() float64 { return floats.Sum(b.m.RawMatrix().Data) }

// Matrix returns a read-only view of the map. Callers must not modify it.
func (b *BinaryMap) Matrix() mat.Matrix { return b.m }

// Data returns a copy of the map's entries in row-major order.
func (b *BinaryMap) Data() []float64 { return copyData(b.m) }

// Equal reports whether b and o have the same shape and entries.
func (b *BinaryMap) Equal(o *BinaryMap) bool {
	if b == nil || o == nil {
		return b == o
	}
	return mat.Equal(b.m, o.m)
}

// Probability returns b viewed as a probability map.
func (b *BinaryMap) Probability() *ProbabilityMap {
	return &ProbabilityMap{m: b.m}
}

// Dims returns the number of rows and columns.
func (p *ProbabilityMap) Dims() (r, c int) { return p.m.Dims() }

// At returns the entry at row i, column j.
func (p *ProbabilityMap) At(i, j int) float64 { return p.m.At(i, j) }

// Sum returns the total probability mass.
func (p *ProbabilityMap) Sum() float64 { return floats.Sum(p.m.RawMatrix().Data) }

// Matrix returns a read-only view of the map. Callers must not modify it.
func (p *ProbabilityMap) Matrix() mat.Matrix { return p.m }

// Data returns a copy of the map's entries in row-major order.
func (p *ProbabilityMap) Data() []float64 { return copyData(p.m) }

// Equal reports whether p and o have the same shape and entries.
func (p *ProbabilityMap) Equal(o *ProbabilityMap) bool {
	if p == nil || o == nil {
		return p == o
	}
	return mat.Equal(p.m, o.m)
}

// Threshold binarizes p, setting cells strictly above t to 1.
func Threshold(p *ProbabilityMap, t float64) *BinaryMap {
	return &BinaryMap{m: binarize(p.m, func(v float64) bool { return v > t })}
}

// GroundTruth derives a reference mask from p, setting cells at or above t to 1.
func GroundTruth(p *ProbabilityMap, t float64) *BinaryMap {
	return &BinaryMap{m: binarize(p.m, func(v float64) bool { return v >= t })}
}

// ShiftColumns translates p by k columns (positive moves right) and fills
// the vacated columns with zeros. p is left untouched.
func ShiftColumns(p *ProbabilityMap, k int) *ProbabilityMap {
	return &ProbabilityMap{m: shift(p.m, 0, k)}
}

// ShiftRows translates p by k rows (positive moves down) and fills the
// vacated rows with zeros. p is left untouched.
func ShiftRows(p *ProbabilityMap, k int) *ProbabilityMap {
	return &ProbabilityMap{m: shift(p.m, k, 0)}
}

func newDense(rows, cols int, data []float64) (*mat.Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShape, len(data), rows, cols)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return mat.NewDense(rows, cols, buf), nil
}

func denseCopy(m mat.Matrix) (*mat.Dense, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, r, c)
	}
	return mat.DenseCopyOf(m), nil
}

func checkBinary(d *mat.Dense) error {
	_, c := d.Dims()
	for i, v := range d.RawMatrix().Data {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: %v at (%d, %d)", ErrNotBinary, v, i/c, i%c)
		}
	}
	return nil
}

func checkProbability(d *mat.Dense) error {
	_, c := d.Dims()
	for i, v := range d.RawMatrix().Data {
		// Written so NaN fails too.
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %v at (%d, %d)", ErrOutOfRange, v, i/c, i%c)
		}
	}
	return nil
}

func binarize(d *mat.Dense, keep func(float64) bool) *mat.Dense {
	r, c := d.Dims()
	src := d.RawMatrix().Data
	out := make([]float64, len(src))
	for i, v := range src {
		if keep(v) {
			out[i] = 1
		}
	}
	return mat.NewDense(r, c, out)
}

func shift(d *mat.Dense, dr, dc int) *mat.Dense {
	r, c := d.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		si := i - dr
		if si < 0 || si >= r {
			continue
		}
		for j := 0; j < c; j++ {
			sj := j - dc
			if sj < 0 || sj >= c {
				continue
			}
			out.Set(i, j, d.At(si, sj))
		}
	}
	return out
}

func copyData(d *mat.Dense) []float64 {
	src := d.RawMatrix().Data
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
