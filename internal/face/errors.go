package face

import "errors"

var (
	// ErrNoFaceDetected is returned when enrollment input holds no face.
	ErrNoFaceDetected = errors.New("no face detected")

	// ErrNotEnrolled is returned when authentication is attempted with an
	// empty reference set.
	ErrNotEnrolled = errors.New("no reference face enrolled")

	// ErrDimensionMismatch is returned when embeddings in one set differ in
	// length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidEncoding is returned when an embedding set file cannot be
	// decoded.
	ErrInvalidEncoding = errors.New("invalid embedding set encoding")
)
