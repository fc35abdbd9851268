// Package config provides configuration loading, merging, and validation
// facilities for neuro-vault.
//
// Configuration is assembled from multiple sources. The first source that
// sets a field wins:
//  1. Command-line flags
//  2. Environment variables (NEUROVAULT_ prefix)
//  3. JSON config file (--config / NEUROVAULT_CONFIG)
//  4. Built-in defaults
//
// Relative file paths are resolved against Paths.Dir. The main entry point
// is [GetStructuredConfig].
package config
