package validators

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldNotes targets the free-text notes of a vault record.
	FieldNotes = "notes"

	// FieldLastModified targets the local modification timestamp.
	FieldLastModified = "last_modified"

	// FieldValues targets the values of a face embedding.
	FieldValues = "values"
)

// MaxNotesBytes bounds the plaintext notes size.
const MaxNotesBytes = 1 << 20

// InputValidator checks user-supplied vault records and face embeddings
// before they are encrypted or enrolled.
type InputValidator struct {
}

func NewInputValidator() Validator {
	return &InputValidator{}
}

func (v *InputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultRecord:
		return v.validateRecord(ctx, value, fields...)
	case *models.VaultRecord:
		return v.validateRecord(ctx, *value, fields...)

	case face.Embedding:
		return v.validateEmbedding(ctx, value, fields...)
	case []face.Embedding:
		for i, e := range value {
			if err := v.validateEmbedding(ctx, e, fields...); err != nil {
				return fmt.Errorf("embedding %d: %w", i, err)
			}
		}
		return nil

	default:
		return ErrUnsupportedType
	}
}

func (v *InputValidator) validateRecord(_ context.Context, record models.VaultRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNotes, FieldLastModified}
	}

	for _, field := range fields {
		switch field {
		case FieldNotes:
			if len(record.Notes) > MaxNotesBytes {
				return fmt.Errorf("%w: %d bytes, limit %d", ErrNotesTooLarge, len(record.Notes), MaxNotesBytes)
			}
			// JSON would silently replace invalid sequences
			if !utf8.ValidString(record.Notes) {
				return fmt.Errorf("%w: not valid UTF-8", ErrInvalidNotes)
			}
		case FieldLastModified:
			if record.LastModified == "" {
				continue
			}
			if _, err := time.ParseInLocation(models.LastModifiedLayout, record.LastModified, time.Local); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidLastModified, record.LastModified)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

// validateEmbedding accepts nil (no face) and finite vectors.
func (v *InputValidator) validateEmbedding(_ context.Context, e face.Embedding, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldValues}
	}

	for _, field := range fields {
		if field != FieldValues {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		for i, x := range e {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: value %d is %v", ErrInvalidEmbedding, i, x)
			}
		}
	}

	return nil
}
