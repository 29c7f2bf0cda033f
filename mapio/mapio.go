// Package mapio reads and writes segmentation maps in a compact
// protocol-buffer wire format.
//
// A map file holds a single message:
//
//	1: kind  (varint)  1 = binary, 2 = probability, 3 = image
//	2: rows  (varint)
//	3: cols  (varint)
//	4: data  (bytes)   packed little-endian doubles, row-major
//
// Unknown fields are skipped, so the format can grow without breaking
// older readers.
package mapio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
	"gonum.org/v1/gonum/mat"

	cdice "github.com/jamesainslie/go-cdice"
)

// Kind identifies what a map file holds.
type Kind int32

const (
	KindUnknown     Kind = 0
	KindBinary      Kind = 1
	KindProbability Kind = 2
	// KindImage holds raw model input; entries are not range checked.
	KindImage Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindProbability:
		return "probability"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

const (
	fieldKind protowire.Number = 1
	fieldRows protowire.Number = 2
	fieldCols protowire.Number = 3
	fieldData protowire.Number = 4
)

var (
	// ErrInvalidFormat indicates the data is not a well-formed map message.
	ErrInvalidFormat = errors.New("mapio: invalid map format")

	// ErrKindMismatch indicates the file holds a different kind of map than requested.
	ErrKindMismatch = errors.New("mapio: unexpected map kind")
)

// Marshal encodes m as a map message of the given kind.
func Marshal(kind Kind, m mat.Matrix) []byte {
	rows, cols := m.Dims()

	data := make([]byte, 0, rows*cols*8)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = protowire.AppendFixed64(data, math.Float64bits(m.At(i, j)))
		}
	}

	var b []byte
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(kind))
	b = protowire.AppendTag(b, fieldRows, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rows))
	b = protowire.AppendTag(b, fieldCols, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(cols))
	b = protowire.AppendTag(b, fieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, data)
	return b
}

// Decode parses a map message of any kind.
func Decode(b []byte) (Kind, *mat.Dense, error) {
	var (
		kind       Kind
		rows, cols uint64
		values     []float64
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, nil, fmt.Errorf("%w: %w", ErrInvalidFormat, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldKind && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			kind = Kind(min(v, math.MaxInt32))
		case num == fieldRows && typ == protowire.VarintType:
			rows, n = protowire.ConsumeVarint(b)
		case num == fieldCols && typ == protowire.VarintType:
			cols, n = protowire.ConsumeVarint(b)
		case num == fieldData && typ == protowire.BytesType:
			var raw []byte
			raw, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var err error
				if values, err = decodeDoubles(raw); err != nil {
					return 0, nil, err
				}
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return 0, nil, fmt.Errorf("%w: %w", ErrInvalidFormat, protowire.ParseError(n))
		}
		b = b[n:]
	}

	switch {
	case kind < KindBinary || kind > KindImage:
		return 0, nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidFormat, int32(kind))
	case rows == 0 || cols == 0:
		return 0, nil, fmt.Errorf("%w: empty dimensions %dx%d", ErrInvalidFormat, rows, cols)
	case rows > math.MaxInt32 || cols > math.MaxInt32 || rows*cols != uint64(len(values)):
		return 0, nil, fmt.Errorf("%w: %d values for %dx%d", ErrInvalidFormat, len(values), rows, cols)
	}

	return kind, mat.NewDense(int(rows), int(cols), values), nil
}

func decodeDoubles(raw []byte) ([]float64, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("%w: data length %d not a multiple of 8", ErrInvalidFormat, len(raw))
	}
	values := make([]float64, 0, len(raw)/8)
	for len(raw) > 0 {
		v, n := protowire.ConsumeFixed64(raw)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, protowire.ParseError(n))
		}
		values = append(values, math.Float64frombits(v))
		raw = raw[n:]
	}
	return values, nil
}

// UnmarshalBinary decodes a binary map.
func UnmarshalBinary(b []byte) (*cdice.BinaryMap, error) {
	kind, m, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if kind != KindBinary {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, KindBinary, kind)
	}
	return cdice.BinaryFromMatrix(m)
}

// UnmarshalProbability decodes a probability map. Binary maps are accepted
// as probability maps with entries 0 and 1.
func UnmarshalProbability(b []byte) (*cdice.ProbabilityMap, error) {
	kind, m, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if kind != KindProbability && kind != KindBinary {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, KindProbability, kind)
	}
	return cdice.ProbabilityFromMatrix(m)
}

// UnmarshalImage decodes a map of any kind as raw pixel values.
func UnmarshalImage(b []byte) (*mat.Dense, error) {
	_, m, err := Decode(b)
	return m, err
}

// LoadBinary reads a binary map file.
func LoadBinary(path string) (*cdice.BinaryMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return UnmarshalBinary(data)
}

// LoadProbability reads a probability map file.
func LoadProbability(path string) (*cdice.ProbabilityMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return UnmarshalProbability(data)
}

// LoadImage reads a map file as raw pixel values.
func LoadImage(path string) (*mat.Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return UnmarshalImage(data)
}

// Save writes m to path as a map of the given kind.
func Save(path string, kind Kind, m mat.Matrix) error {
	if err := os.WriteFile(path, Marshal(kind, m), 0o644); err != nil {
		return fmt.Errorf("writing map file: %w", err)
	}
	return nil
}
