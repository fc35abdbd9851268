// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KDF names a password-based key derivation function.
type KDF string

const (
	KDFPBKDF2SHA256 KDF = "pbkdf2-sha256"
	KDFArgon2id     KDF = "argon2id"
)

const (
	// MinPBKDF2Iterations is the lowest PBKDF2 iteration count accepted.
	MinPBKDF2Iterations = 100_000
	// DefaultPBKDF2Iterations is the iteration count used unless configured.
	DefaultPBKDF2Iterations = 100_000
)

// KDFParams selects a KDF and its work factor.
type KDFParams struct {
	Algorithm KDF `json:"kdf"`

	// PBKDF2 only.
	Iterations int `json:"iterations,omitempty"`

	// Argon2id only.
	ArgonTime    uint32 `json:"argon_time,omitempty"`
	ArgonMemory  uint32 `json:"argon_memory_kib,omitempty"`
	ArgonThreads uint8  `json:"argon_threads,omitempty"`
}

// DefaultKDFParams returns PBKDF2-HMAC-SHA256 with 100 000 iterations.
func DefaultKDFParams() KDFParams {
	return KDFParams{Algorithm: KDFPBKDF2SHA256, Iterations: DefaultPBKDF2Iterations}
}

// Argon2idParams returns the Argon2id parameters recommended by OWASP:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func Argon2idParams() KDFParams {
	return KDFParams{
		Algorithm:    KDFArgon2id,
		ArgonTime:    1,
		ArgonMemory:  64 * 1024, // 64 MiB
		ArgonThreads: 4,
	}
}

// Validate rejects unknown algorithms and work factors below the minimum.
func (p KDFParams) Validate() error {
	switch p.Algorithm {
	case KDFPBKDF2SHA256:
		if p.Iterations < MinPBKDF2Iterations {
			return fmt.Errorf("%w: pbkdf2 iterations %d < %d", ErrWeakKDFParams, p.Iterations, MinPBKDF2Iterations)
		}
	case KDFArgon2id:
		if p.ArgonTime < 1 || p.ArgonMemory < 8*1024 || p.ArgonThreads < 1 {
			return fmt.Errorf("%w: argon2id t=%d m=%d p=%d", ErrWeakKDFParams, p.ArgonTime, p.ArgonMemory, p.ArgonThreads)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKDF, p.Algorithm)
	}
	return nil
}

// Derive stretches passphrase with salt into a Key. The same inputs always
// produce the same key.
func Derive(params KDFParams, passphrase []byte, salt Salt) (Key, error) {
	if len(passphrase) == 0 {
		return Key{}, ErrEmptyPassphrase
	}
	if err := params.Validate(); err != nil {
		return Key{}, err
	}

	var raw []byte
	switch params.Algorithm {
	case KDFPBKDF2SHA256:
		raw = pbkdf2.Key(passphrase, salt, params.Iterations, KeySize, sha256.New)
	case KDFArgon2id:
		raw = argon2.IDKey(passphrase, salt, params.ArgonTime, params.ArgonMemory, params.ArgonThreads, KeySize)
	}

	var k Key
	copy(k[:], raw)
	return k, nil
}

// SaltRecord is the on-disk salt file: the salt together with the KDF
// parameters needed to reproduce the key.
type SaltRecord struct {
	KDFParams
	Salt Salt `json:"-"`

	// KeyFingerprint names the key the salt derives. Set on staged salts so
	// a rotation only commits the salt that belongs to its key.
	KeyFingerprint string `json:"-"`
}

type saltRecordJSON struct {
	KDFParams
	Salt           string `json:"salt"`
	KeyFingerprint string `json:"key_fingerprint,omitempty"`
}

// MarshalJSON encodes the salt as standard base64.
func (r SaltRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(saltRecordJSON{
		KDFParams:      r.KDFParams,
		Salt:           base64.StdEncoding.EncodeToString(r.Salt),
		KeyFingerprint: r.KeyFingerprint,
	})
}

// UnmarshalJSON decodes a salt file and validates its parameters.
func (r *SaltRecord) UnmarshalJSON(data []byte) error {
	var raw saltRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrSaltCorrupt, err)
	}
	salt, err := base64.StdEncoding.DecodeString(raw.Salt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaltCorrupt, err)
	}
	if len(salt) == 0 {
		return fmt.Errorf("%w: empty salt", ErrSaltCorrupt)
	}
	if err = raw.KDFParams.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSaltCorrupt, err)
	}

	r.KDFParams = raw.KDFParams
	r.Salt = salt
	r.KeyFingerprint = raw.KeyFingerprint
	return nil
}
