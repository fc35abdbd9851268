// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// KeySize is the length of an AES-256 key in bytes.
	KeySize = 32
	// SaltSize is the length of a passphrase salt in bytes.
	SaltSize = 16
)

// Key is a 256-bit symmetric key.
type Key [KeySize]byte

// Salt is the random input that makes equal passphrases derive different
// keys. It is not secret.
type Salt []byte

// NewKey reads a fresh key from the OS CSPRNG.
func NewKey() (Key, error) {
	var k Key
	if _, err := io.ReadFull(rand.Reader, k[:]); err != nil {
		return Key{}, fmt.Errorf("read random key: %w", err)
	}
	return k, nil
}

// NewSalt reads SaltSize random bytes from the OS CSPRNG.
func NewSalt() (Salt, error) {
	salt := make(Salt, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("read random salt: %w", err)
	}
	return salt, nil
}

// Encode returns the key as URL-safe base64 with padding, the key file
// format.
func (k Key) Encode() string {
	return base64.URLEncoding.EncodeToString(k[:])
}

// String returns the fingerprint so that a key passed to a formatter or a
// logger never leaks its bytes.
func (k Key) String() string {
	return Fingerprint(k)
}

// Bytes returns a copy of the raw key bytes.
func (k Key) Bytes() []byte {
	return bytes.Clone(k[:])
}

// IsZero reports whether k is the all-zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// ParseKey decodes the key file format. Surrounding whitespace is ignored.
func ParseKey(data []byte) (Key, error) {
	raw, err := base64.URLEncoding.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrKeyCorrupt, err)
	}
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("%w: decoded %d bytes, want %d", ErrKeyCorrupt, len(raw), KeySize)
	}

	var k Key
	copy(k[:], raw)
	return k, nil
}

// Fingerprint returns the first 8 bytes of SHA-256(key) in hex. It identifies
// a key in logs and audit records without revealing it.
func Fingerprint(k Key) string {
	sum := sha256.Sum256(k[:])
	return hex.EncodeToString(sum[:8])
}
