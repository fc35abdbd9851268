package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidPathConfigs indicates missing or conflicting file paths.
	ErrInvalidPathConfigs = errors.New("invalid path configuration")
	// ErrInvalidAuthConfigs indicates invalid authentication session bounds
	// (for example, zero attempts or a non-positive timeout).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidSecurityConfigs indicates an unknown KDF or parameters below
	// the accepted minimum.
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
)
