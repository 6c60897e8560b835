package rmeconv

import "errors"

var (
	// ErrMissingInput indicates the RME source file of a matched pair is absent.
	ErrMissingInput = errors.New("rmeconv: missing input")

	// ErrChannelCount indicates a source image has fewer channels than a transform requires.
	ErrChannelCount = errors.New("rmeconv: not enough channels")

	// ErrDimension indicates a zero-area image or a non-positive resize target.
	ErrDimension = errors.New("rmeconv: bad dimensions")
)
