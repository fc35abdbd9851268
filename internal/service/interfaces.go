// Package service orchestrates the vault, the face matcher and the
// authentication session into the operations exposed by the CLI. Every
// operation is recorded in the audit trail; audit failures are logged and
// never fail the operation itself.
package service

import (
	"context"

	"github.com/MKhiriev/neuro-vault/internal/adapter"
	"github.com/MKhiriev/neuro-vault/internal/auth"
	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/vault"
	"github.com/MKhiriev/neuro-vault/models"
)

// Authenticator runs a face authentication session against a frame source.
type Authenticator interface {
	// Authenticate consumes frames from src until the session reaches a
	// terminal state or ctx is done. src is closed before returning.
	Authenticate(ctx context.Context, src adapter.FrameSource) (auth.Decision, error)
}

// EnrollmentService replaces the enrolled reference face.
type EnrollmentService interface {
	// Enroll stores embeddings as the reference set. When imagePath is set
	// the enrollment photo is copied to the configured reference image.
	Enroll(ctx context.Context, embeddings []face.Embedding, imagePath string) (face.ReferenceInfo, error)

	// Reference describes the currently enrolled reference set.
	Reference(ctx context.Context) (face.ReferenceInfo, error)
}

// VaultService exposes the audited vault operations.
type VaultService interface {
	// Open loads the vault key. Every other method except Info, Verify and
	// Shred requires it.
	Open(ctx context.Context) error

	Notes(ctx context.Context) (models.VaultRecord, error)
	SaveNotes(ctx context.Context, notes string) (models.VaultRecord, error)

	Backup(ctx context.Context) (path string, ok bool, err error)
	Backups(ctx context.Context) ([]vault.BackupInfo, error)
	Restore(ctx context.Context, backupPath string) error

	// Rotate re-encrypts under newKey, or a fresh random key when nil, then
	// prunes backups down to the configured retention.
	Rotate(ctx context.Context, newKey *crypto.Key) (vault.RotateResult, error)

	Verify(ctx context.Context) error
	Shred(ctx context.Context, path string) error
	Info(ctx context.Context) (Info, error)
}

// Info is the combined state of the vault and the enrolled face.
type Info struct {
	Vault     vault.Info         `json:"vault"`
	Reference face.ReferenceInfo `json:"reference"`
	KeyFile   vault.FileInfo     `json:"key_file"`
	SaltFile  vault.FileInfo     `json:"salt_file"`
	KDF       crypto.KDFParams   `json:"kdf"`
}
