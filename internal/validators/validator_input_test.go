// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/models"
)

// ---------------------------------------------------------------------------
// VaultRecord
// ---------------------------------------------------------------------------

func TestInputValidator_Record(t *testing.T) {
	tests := []struct {
		name    string
		record  any
		fields  []string
		wantErr error
	}{
		{name: "valid", record: models.VaultRecord{Notes: "hello", LastModified: "2026-03-14 15:09:26"}},
		{name: "pointer", record: &models.VaultRecord{Notes: "hello"}},
		{name: "empty record", record: models.EmptyRecord()},
		{name: "invalid utf8", record: models.VaultRecord{Notes: "bad \xff byte"}, wantErr: ErrInvalidNotes},
		{
			name:    "too large",
			record:  models.VaultRecord{Notes: strings.Repeat("x", MaxNotesBytes+1)},
			wantErr: ErrNotesTooLarge,
		},
		{
			name:    "bad timestamp",
			record:  models.VaultRecord{LastModified: "14/03/2026"},
			wantErr: ErrInvalidLastModified,
		},
		{
			name:   "bad timestamp ignored when scoped to notes",
			record: models.VaultRecord{LastModified: "14/03/2026"},
			fields: []string{FieldNotes},
		},
		{name: "unknown field", record: models.VaultRecord{}, fields: []string{"title"}, wantErr: ErrUnknownField},
	}

	v := NewInputValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.record, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// Embeddings
// ---------------------------------------------------------------------------

func TestInputValidator_Embeddings(t *testing.T) {
	v := NewInputValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, face.Embedding{0.1, -0.2}))
	assert.NoError(t, v.Validate(ctx, face.Embedding(nil)))
	assert.NoError(t, v.Validate(ctx, []face.Embedding{{1}, nil, {2}}))

	assert.ErrorIs(t, v.Validate(ctx, face.Embedding{math.NaN()}), ErrInvalidEmbedding)
	assert.ErrorIs(t, v.Validate(ctx, []face.Embedding{{1}, {math.Inf(1)}}), ErrInvalidEmbedding)
	assert.ErrorIs(t, v.Validate(ctx, face.Embedding{1}, "norm"), ErrUnknownField)
}

func TestInputValidator_UnsupportedType(t *testing.T) {
	assert.ErrorIs(t, NewInputValidator().Validate(context.Background(), 42), ErrUnsupportedType)
}
