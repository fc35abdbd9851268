// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Key file errors.
var (
	// ErrKeyNotFound is returned when no key file exists at the configured
	// path, or when a rotation is committed without a staged key.
	ErrKeyNotFound = errors.New("encryption key not found")

	// ErrKeyCorrupt is returned when the key file does not hold valid
	// URL-safe base64 of exactly 32 bytes.
	ErrKeyCorrupt = errors.New("encryption key is corrupt")
)

// Key derivation errors.
var (
	// ErrEmptyPassphrase is returned by DeriveKey for an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")

	// ErrWeakKDFParams is returned when a KDF is configured below the
	// minimum work factor.
	ErrWeakKDFParams = errors.New("kdf parameters below minimum")

	// ErrUnknownKDF is returned for a KDF name this build does not support.
	ErrUnknownKDF = errors.New("unknown kdf")

	// ErrSaltNotFound is returned by LoadSalt when no salt file exists.
	ErrSaltNotFound = errors.New("passphrase salt not found")

	// ErrSaltCorrupt is returned when the salt file cannot be decoded.
	ErrSaltCorrupt = errors.New("passphrase salt is corrupt")
)
