// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing message strings printed by the
// neuro-vault CLI.
//
// All Msg* constants are human-readable messages shown on stderr when a
// command fails. Keeping them in one place ensures consistent wording across
// commands. [Message] maps an error returned by the lower layers onto one of
// them.
package app

import (
	"context"
	"errors"

	"github.com/MKhiriev/neuro-vault/internal/adapter"
	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/service"
	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/internal/validators"
	"github.com/MKhiriev/neuro-vault/internal/vault"
)

const (
	// MsgIntegrityViolation is shown when the vault file exists but fails
	// authentication. It must never be confused with an empty vault.
	MsgIntegrityViolation = "vault data failed integrity check: the file is corrupt, tampered with, or encrypted under another key"

	// MsgSchemaViolation is shown when the decrypted vault does not contain
	// a valid record.
	MsgSchemaViolation = "vault data decrypted but does not contain a valid record"

	// MsgKeyNotFound is shown when the key file is missing.
	MsgKeyNotFound = "vault key not found; restore it or recover it with `key recover`"

	// MsgKeyCorrupt is shown when the key file cannot be decoded.
	MsgKeyCorrupt = "vault key file is corrupt"

	// MsgNotEnrolled is shown when authentication is attempted before a
	// reference face has been enrolled.
	MsgNotEnrolled = "no reference face enrolled; run `enroll` first"

	// MsgNoFaceDetected is shown when enrollment input contains no face.
	MsgNoFaceDetected = "no face detected in the enrollment input"

	// MsgAccessDenied is shown when face authentication rejects the user.
	MsgAccessDenied = "access denied"

	// MsgCaptureUnavailable is shown when the capture command or frame file
	// cannot be used.
	MsgCaptureUnavailable = "face capture unavailable"

	// MsgMalformedFrame is shown when the frame source emits invalid data.
	MsgMalformedFrame = "face capture produced malformed data"

	// MsgBackupNotFound is shown when a restore names a missing backup.
	MsgBackupNotFound = "backup not found"

	// MsgSaltNotFound is shown when key recovery runs without a salt file.
	MsgSaltNotFound = "no passphrase salt stored; the key was not derived from a passphrase"

	// MsgWrongPassphrase is shown when a recovered key cannot decrypt the
	// vault.
	MsgWrongPassphrase = "passphrase does not match the vault"

	// MsgInvalidNotes is shown when notes are not valid UTF-8 or too large.
	MsgInvalidNotes = "notes rejected: text must be valid UTF-8 and at most 1 MiB"

	// MsgInvalidEmbedding is shown when an embedding holds NaN or infinite
	// values.
	MsgInvalidEmbedding = "face embedding contains non-finite values"

	// MsgIOFailure is shown for disk and permission problems.
	MsgIOFailure = "file system error"

	// MsgCanceled is shown when the user interrupts a command.
	MsgCanceled = "operation canceled"

	// MsgInternalError is shown for everything else.
	MsgInternalError = "internal error"
)

// ErrWrongPassphrase is returned when a key recovered from a passphrase does
// not decrypt the existing vault.
var ErrWrongPassphrase = errors.New("wrong passphrase")

var messages = []struct {
	err error
	msg string
}{
	{vault.ErrIntegrityViolation, MsgIntegrityViolation},
	{vault.ErrSchemaViolation, MsgSchemaViolation},
	{vault.ErrBackupNotFound, MsgBackupNotFound},
	{crypto.ErrKeyNotFound, MsgKeyNotFound},
	{crypto.ErrKeyCorrupt, MsgKeyCorrupt},
	{crypto.ErrSaltNotFound, MsgSaltNotFound},
	{ErrWrongPassphrase, MsgWrongPassphrase},
	{face.ErrNotEnrolled, MsgNotEnrolled},
	{face.ErrNoFaceDetected, MsgNoFaceDetected},
	{service.ErrAccessDenied, MsgAccessDenied},
	{adapter.ErrMalformedFrame, MsgMalformedFrame},
	{adapter.ErrCaptureUnavailable, MsgCaptureUnavailable},
	{validators.ErrInvalidNotes, MsgInvalidNotes},
	{validators.ErrNotesTooLarge, MsgInvalidNotes},
	{validators.ErrInvalidEmbedding, MsgInvalidEmbedding},
	{context.Canceled, MsgCanceled},
	{utils.ErrIOFailure, MsgIOFailure},
}

// Message returns the user-facing message for err, or [MsgInternalError]
// when err matches none of the known failures.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return MsgInternalError
}
