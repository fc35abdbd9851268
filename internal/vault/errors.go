// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "errors"

// Decryption errors.
var (
	// ErrIntegrityViolation is returned when a blob fails authentication:
	// it is truncated, carries an unknown format version, was tampered with
	// or was encrypted under a different key. Callers must not treat it as
	// an empty vault.
	ErrIntegrityViolation = errors.New("vault integrity violation")

	// ErrSchemaViolation is returned when a blob authenticates but the
	// plaintext is not a valid record, for example a required field is
	// missing.
	ErrSchemaViolation = errors.New("vault record schema violation")
)

// Lifecycle errors.
var (
	// ErrNotOpen is returned by operations that need the key when Open has
	// not completed successfully.
	ErrNotOpen = errors.New("vault is not open")

	// ErrBackupNotFound is returned by Restore when the backup file does not
	// exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrBackupExhausted is returned when no free backup name could be
	// found for the current second.
	ErrBackupExhausted = errors.New("too many backups in the same second")
)
