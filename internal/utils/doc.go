// Package utils provides general-purpose helpers shared by the vault,
// key and reference-embedding stores: crash-safe file writes, fsynced copies,
// I/O error classification and identifier generation.
package utils
