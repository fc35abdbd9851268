package config

import "time"

// Defaults returns the built-in configuration.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Paths: Paths{
			Dir:            ".",
			KeyFile:        "secret.key",
			SaltFile:       "secret.salt",
			DataFile:       "vault_data.json",
			EncodingsFile:  "face_encodings.bin",
			ReferenceImage: "user_face.jpg",
		},
		Auth: Auth{
			Tolerance:                  0.6,
			MaxAttempts:                3,
			Timeout:                    10 * time.Second,
			RequiredConsecutiveMatches: 3,
			TickInterval:               100 * time.Millisecond,
		},
		Security: Security{
			KDF:              "pbkdf2-sha256",
			PBKDF2Iterations: 100_000,
			ShredPasses:      3,
		},
		Storage: Storage{
			AuditDSN: "neurovault.db",
		},
		Log: Log{
			Level: "info",
		},
	}
}
