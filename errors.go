package cdice

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrDegenerateInput indicates both inputs of a Dice computation are
	// entirely empty, leaving the coefficient undefined.
	ErrDegenerateInput = errors.New("cdice: undefined for empty masks")

	// ErrShapeMismatch indicates the two maps have different dimensions.
	ErrShapeMismatch = errors.New("cdice: map dimensions differ")

	// ErrShape indicates the backing data does not match the requested dimensions.
	ErrShape = errors.New("cdice: data length does not match dimensions")

	// ErrNotBinary indicates a binary map entry other than 0 or 1.
	ErrNotBinary = errors.New("cdice: binary map entry not in {0, 1}")

	// ErrOutOfRange indicates a probability outside [0, 1].
	ErrOutOfRange = errors.New("cdice: probability outside [0, 1]")

	// ErrNilMap indicates a nil map argument.
	ErrNilMap = errors.New("cdice: nil map")

	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("cdice: model file not found")

	// ErrInvalidModel indicates the model file exists but could not be loaded.
	ErrInvalidModel = errors.New("cdice: invalid model format")
)
