package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the persistent configuration flags on fs and returns
// the config they populate. Values become visible once fs is parsed, so the
// returned pointer should be handed to [GetStructuredConfig] after parsing.
//
// Flags:
//
//	-c/--config    json file path with configs
//	--dir          base directory for relative paths
//	--key-file     vault key file
//	--salt-file    passphrase salt file
//	--data-file    encrypted vault file
//	--encodings    enrolled face encodings file
//	--tolerance    face match tolerance
//	--max-attempts mismatching frames before rejection
//	--timeout      authentication timeout (e.g., "10s")
//	--matches      consecutive matches required
//	--kdf          key derivation function (pbkdf2-sha256, argon2id)
//	--shred-passes overwrite passes for secure deletion
//	--audit-db     audit database path, "off" to disable
//	--capture-cmd  face capture command
//	--frames       JSON-lines frames file, "-" for stdin
//	--log-level    log level
//	--log-file     log file path
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.StringVar(&cfg.Paths.Dir, "dir", "", "Base directory for relative paths")
	fs.StringVar(&cfg.Paths.KeyFile, "key-file", "", "Vault key file")
	fs.StringVar(&cfg.Paths.SaltFile, "salt-file", "", "Passphrase salt file")
	fs.StringVar(&cfg.Paths.DataFile, "data-file", "", "Encrypted vault file")
	fs.StringVar(&cfg.Paths.EncodingsFile, "encodings", "", "Enrolled face encodings file")
	fs.Float64Var(&cfg.Auth.Tolerance, "tolerance", 0, "Face match tolerance")
	fs.IntVar(&cfg.Auth.MaxAttempts, "max-attempts", 0, "Mismatching frames before rejection")
	fs.DurationVar(&cfg.Auth.Timeout, "timeout", 0, "Authentication timeout (e.g., 10s)")
	fs.IntVar(&cfg.Auth.RequiredConsecutiveMatches, "matches", 0, "Consecutive matches required")
	fs.StringVar(&cfg.Security.KDF, "kdf", "", "Key derivation function (pbkdf2-sha256, argon2id)")
	fs.IntVar(&cfg.Security.ShredPasses, "shred-passes", 0, "Overwrite passes for secure deletion")
	fs.StringVar(&cfg.Storage.AuditDSN, "audit-db", "", `Audit database path, "off" to disable`)
	fs.StringVar(&cfg.Capture.Command, "capture-cmd", "", "Face capture command")
	fs.StringVar(&cfg.Capture.FramesFile, "frames", "", `JSON-lines frames file, "-" for stdin`)
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")

	return cfg
}
