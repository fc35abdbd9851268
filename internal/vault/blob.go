// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/models"
)

const (
	// FormatVersion is the first byte of every blob written by this build.
	FormatVersion byte = 1

	nonceSize = 12
	tagSize   = 16

	// MinBlobSize is the length of a blob holding an empty plaintext.
	MinBlobSize = 1 + nonceSize + tagSize
)

// Blob is an encrypted record: version ‖ nonce ‖ ciphertext ‖ tag.
//
// The version byte is authenticated as additional data, so every byte of a
// blob is covered by the GCM tag.
type Blob []byte

// Version returns the format version byte, or 0 for an empty blob.
func (b Blob) Version() byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func newGCM(key crypto.Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt serialises record to canonical JSON and seals it under key with
// AES-256-GCM and a fresh random nonce. Encrypting the same record twice
// yields different blobs.
func Encrypt(record models.VaultRecord, key crypto.Key) (Blob, error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	aad := []byte{FormatVersion}
	blob := make([]byte, 0, MinBlobSize+len(plaintext))
	blob = append(blob, FormatVersion)
	blob = append(blob, nonce...)
	blob = gcm.Seal(blob, nonce, plaintext, aad)

	return blob, nil
}

// Decrypt authenticates and opens blob under key, then decodes the record.
//
// Any authentication failure is reported as [ErrIntegrityViolation]; a
// plaintext that is not a complete record is [ErrSchemaViolation].
func Decrypt(blob Blob, key crypto.Key) (models.VaultRecord, error) {
	if len(blob) < MinBlobSize {
		return models.VaultRecord{}, fmt.Errorf("%w: blob is %d bytes, need at least %d", ErrIntegrityViolation, len(blob), MinBlobSize)
	}
	if v := blob.Version(); v != FormatVersion {
		return models.VaultRecord{}, fmt.Errorf("%w: unsupported format version %d", ErrIntegrityViolation, v)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return models.VaultRecord{}, err
	}

	nonce, sealed := blob[1:1+nonceSize], blob[1+nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, blob[:1])
	if err != nil {
		// Wrong key and tampered ciphertext are indistinguishable here.
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrIntegrityViolation, err)
	}

	return decodeRecord(plaintext)
}

// decodeRecord requires both record fields to be present as strings.
func decodeRecord(plaintext []byte) (models.VaultRecord, error) {
	var raw struct {
		Notes        *string `json:"notes"`
		LastModified *string `json:"last_modified"`
	}
	if err := json.Unmarshal(plaintext, &raw); err != nil {
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	if raw.Notes == nil {
		return models.VaultRecord{}, fmt.Errorf("%w: missing field %q", ErrSchemaViolation, "notes")
	}
	if raw.LastModified == nil {
		return models.VaultRecord{}, fmt.Errorf("%w: missing field %q", ErrSchemaViolation, "last_modified")
	}

	return models.VaultRecord{Notes: *raw.Notes, LastModified: *raw.LastModified}, nil
}
