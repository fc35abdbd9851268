// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	p := cfg.Paths
	if p.KeyFile == "" || p.DataFile == "" || p.EncodingsFile == "" || p.SaltFile == "" {
		return fmt.Errorf("%w: key, salt, data and encodings files are required", ErrInvalidPathConfigs)
	}
	if p.KeyFile == p.DataFile {
		return fmt.Errorf("%w: key file and data file must differ", ErrInvalidPathConfigs)
	}

	a := cfg.Auth
	if a.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidAuthConfigs)
	}
	if a.MaxAttempts < 1 || a.RequiredConsecutiveMatches < 1 {
		return fmt.Errorf("%w: max attempts and required matches must be at least 1", ErrInvalidAuthConfigs)
	}
	if a.Timeout <= 0 || a.TickInterval <= 0 {
		return fmt.Errorf("%w: timeout and tick interval must be positive", ErrInvalidAuthConfigs)
	}

	s := cfg.Security
	if _, err := s.KDFParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSecurityConfigs, err)
	}
	if s.BackupRetention < 0 {
		return fmt.Errorf("%w: backup retention must not be negative", ErrInvalidSecurityConfigs)
	}

	return nil
}

// KDFParams converts the security settings to validated KDF parameters.
func (s Security) KDFParams() (crypto.KDFParams, error) {
	var params crypto.KDFParams
	switch crypto.KDF(s.KDF) {
	case crypto.KDFArgon2id:
		params = crypto.Argon2idParams()
	case crypto.KDFPBKDF2SHA256, "":
		params = crypto.DefaultKDFParams()
		if s.PBKDF2Iterations != 0 {
			params.Iterations = s.PBKDF2Iterations
		}
	default:
		return params, fmt.Errorf("%w: %q", crypto.ErrUnknownKDF, s.KDF)
	}

	return params, params.Validate()
}
