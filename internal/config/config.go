// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NEUROVAULT_"

// StructuredConfig is the top-level configuration container for
// neuro-vault. It aggregates all sub-configurations and is populated by
// merging flags, environment variables, an optional JSON file and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Paths locates every file the vault reads or writes.
	Paths Paths `envPrefix:"PATHS_"`

	// Auth bounds a face authentication session.
	Auth Auth `envPrefix:"AUTH_"`

	// Security holds key derivation and deletion settings.
	Security Security `envPrefix:"SECURITY_"`

	// Storage holds the audit database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Capture selects where face embeddings come from.
	Capture Capture `envPrefix:"CAPTURE_"`

	// Log controls log verbosity and destination.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: NEUROVAULT_CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// Paths locates the vault files. Relative paths are resolved against Dir.
type Paths struct {
	// Dir is the base directory for relative paths.
	// Env: NEUROVAULT_PATHS_DIR
	Dir string `env:"DIR"`

	// KeyFile holds the base64 vault key.
	// Env: NEUROVAULT_PATHS_KEY_FILE
	KeyFile string `env:"KEY_FILE"`

	// SaltFile holds the passphrase salt and KDF parameters.
	// Env: NEUROVAULT_PATHS_SALT_FILE
	SaltFile string `env:"SALT_FILE"`

	// DataFile holds the encrypted record.
	// Env: NEUROVAULT_PATHS_DATA_FILE
	DataFile string `env:"DATA_FILE"`

	// EncodingsFile holds the enrolled reference embeddings.
	// Env: NEUROVAULT_PATHS_ENCODINGS_FILE
	EncodingsFile string `env:"ENCODINGS_FILE"`

	// ReferenceImage is where the enrollment photo is copied.
	// Env: NEUROVAULT_PATHS_REFERENCE_IMAGE
	ReferenceImage string `env:"REFERENCE_IMAGE"`
}

// Auth bounds a face authentication session.
type Auth struct {
	// Tolerance is the largest embedding distance counted as a match.
	// Env: NEUROVAULT_AUTH_TOLERANCE
	Tolerance float64 `env:"TOLERANCE"`

	// MaxAttempts is the number of mismatching frames that rejects.
	// Env: NEUROVAULT_AUTH_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// Timeout is the wall-clock budget of a session (e.g. "10s").
	// Env: NEUROVAULT_AUTH_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// RequiredConsecutiveMatches is the run of matches that accepts.
	// Env: NEUROVAULT_AUTH_REQUIRED_MATCHES
	RequiredConsecutiveMatches int `env:"REQUIRED_MATCHES"`

	// TickInterval is the pause between two session ticks.
	// Env: NEUROVAULT_AUTH_TICK_INTERVAL
	TickInterval time.Duration `env:"TICK_INTERVAL"`
}

// Security holds key derivation and deletion settings.
type Security struct {
	// KDF is "pbkdf2-sha256" or "argon2id".
	// Env: NEUROVAULT_SECURITY_KDF
	KDF string `env:"KDF"`

	// PBKDF2Iterations is the PBKDF2 work factor.
	// Env: NEUROVAULT_SECURITY_PBKDF2_ITERATIONS
	PBKDF2Iterations int `env:"PBKDF2_ITERATIONS"`

	// ShredPasses is the number of overwrite passes for secure deletion.
	// Env: NEUROVAULT_SECURITY_SHRED_PASSES
	ShredPasses int `env:"SHRED_PASSES"`

	// BackupRetention is how many backups are kept after a rotation;
	// 0 keeps all.
	// Env: NEUROVAULT_SECURITY_BACKUP_RETENTION
	BackupRetention int `env:"BACKUP_RETENTION"`
}

// Storage holds the audit database settings.
type Storage struct {
	// AuditDSN is the SQLite database path. "off" disables auditing.
	// Env: NEUROVAULT_STORAGE_AUDIT_DSN
	AuditDSN string `env:"AUDIT_DSN"`
}

// AuditDisabled is the AuditDSN value that turns auditing off.
const AuditDisabled = "off"

// Capture selects where face embeddings come from.
type Capture struct {
	// Command is the capture program with arguments, split on whitespace.
	// Env: NEUROVAULT_CAPTURE_COMMAND
	Command string `env:"COMMAND"`

	// FramesFile is a JSON-lines frame file, "-" for stdin.
	// Env: NEUROVAULT_CAPTURE_FRAMES_FILE
	FramesFile string `env:"FRAMES_FILE"`
}

// Log controls log verbosity and destination.
type Log struct {
	// Level is one of debug, info, warn, error.
	// Env: NEUROVAULT_LOG_LEVEL
	Level string `env:"LEVEL"`

	// File appends logs to a file instead of stderr.
	// Env: NEUROVAULT_LOG_FILE
	File string `env:"FILE"`
}

// CommandArgs splits Command into program and arguments.
func (c Capture) CommandArgs() []string {
	return strings.Fields(c.Command)
}

// AuditEnabled reports whether an audit database is configured.
func (s Storage) AuditEnabled() bool {
	return s.AuditDSN != "" && s.AuditDSN != AuditDisabled
}

// resolve makes every relative path absolute under Dir.
func (p *Paths) resolve() {
	if p.Dir == "" {
		return
	}
	for _, f := range []*string{&p.KeyFile, &p.SaltFile, &p.DataFile, &p.EncodingsFile, &p.ReferenceImage} {
		if *f != "" && !filepath.IsAbs(*f) {
			*f = filepath.Join(p.Dir, *f)
		}
	}
}

// GetStructuredConfig merges flags (may be nil), environment, the JSON file
// and defaults, resolves paths and validates the result.
func GetStructuredConfig(flags *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
