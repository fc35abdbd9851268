package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidNotes        = errors.New("invalid notes")
	ErrNotesTooLarge       = errors.New("notes too large")
	ErrInvalidLastModified = errors.New("invalid last modified time")
	ErrInvalidEmbedding    = errors.New("invalid face embedding")
)
