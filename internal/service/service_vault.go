// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/internal/validators"
	"github.com/MKhiriev/neuro-vault/internal/vault"
	"github.com/MKhiriev/neuro-vault/models"
)

// vaultService wraps a [vault.Vault] with audit records and backup
// retention.
type vaultService struct {
	vault *vault.Vault
	keys  *crypto.KeyManager
	refs  *face.ReferenceStore

	// backupRetention is the number of backups kept after a rotation;
	// 0 keeps all of them.
	backupRetention int

	validator validators.Validator

	now    func() time.Time
	audit  auditor
	logger *logger.Logger
}

// NewVaultService returns a VaultService over v. keys and refs are only
// read for Info.
func NewVaultService(v *vault.Vault, keys *crypto.KeyManager, refs *face.ReferenceStore, backupRetention int, audit store.AuditRepository, log *logger.Logger) VaultService {
	return &vaultService{
		vault:           v,
		keys:            keys,
		refs:            refs,
		backupRetention: backupRetention,
		validator:       validators.NewInputValidator(),
		now:             time.Now,
		audit:           newAuditor(audit, log),
		logger:          log,
	}
}

func (s *vaultService) Open(ctx context.Context) error {
	return s.vault.Open(ctx)
}

func (s *vaultService) Notes(ctx context.Context) (models.VaultRecord, error) {
	record, err := s.vault.Load(ctx)
	s.audit.result(ctx, models.OpNotesRead, err, "")
	return record, err
}

// SaveNotes replaces the notes and stamps the modification time in local
// time.
func (s *vaultService) SaveNotes(ctx context.Context, notes string) (models.VaultRecord, error) {
	record := models.VaultRecord{
		Notes:        notes,
		LastModified: s.now().Format(models.LastModifiedLayout),
	}

	err := s.validator.Validate(ctx, record, validators.FieldNotes)
	if err == nil {
		err = s.vault.Save(ctx, record)
	}
	s.audit.result(ctx, models.OpNotesSave, err, "bytes="+strconv.Itoa(len(notes)))
	if err != nil {
		return models.VaultRecord{}, err
	}
	return record, nil
}

func (s *vaultService) Backup(ctx context.Context) (string, bool, error) {
	path, ok, err := s.vault.Backup(ctx)
	s.audit.result(ctx, models.OpBackup, err, path)
	return path, ok, err
}

func (s *vaultService) Backups(ctx context.Context) ([]vault.BackupInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vault.ListBackups()
}

func (s *vaultService) Restore(ctx context.Context, backupPath string) error {
	err := s.vault.Restore(ctx, backupPath)
	s.audit.result(ctx, models.OpRestore, err, backupPath)
	return err
}

func (s *vaultService) Rotate(ctx context.Context, newKey *crypto.Key) (vault.RotateResult, error) {
	result, err := s.vault.RotateKey(ctx, newKey)
	s.audit.result(ctx, models.OpRotateKey, err, fmt.Sprintf("%s->%s", result.Previous, result.Current))
	if err != nil {
		return result, err
	}

	if s.backupRetention > 0 {
		removed, pruneErr := s.vault.PruneBackups(ctx, s.backupRetention)
		if pruneErr != nil {
			s.logger.Warn().Err(pruneErr).Str("func", "vaultService.Rotate").Msg("backup pruning failed")
		} else if len(removed) > 0 {
			s.logger.Info().Int("removed", len(removed)).Int("kept", s.backupRetention).Msg("old backups pruned")
		}
	}

	return result, nil
}

func (s *vaultService) Verify(ctx context.Context) error {
	err := s.vault.CheckIntegrity(ctx)
	s.audit.result(ctx, models.OpVerify, err, "")
	return err
}

func (s *vaultService) Shred(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.vault.SecureDelete(path)
	s.audit.result(ctx, models.OpShred, err, path)
	return err
}

func (s *vaultService) Info(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	vaultInfo, err := s.vault.Info()
	if err != nil {
		return Info{}, err
	}
	refInfo, err := s.refs.Info()
	if err != nil {
		return Info{}, err
	}
	keyFile, err := vault.StatFile(s.keys.KeyPath())
	if err != nil {
		return Info{}, err
	}
	saltFile, err := vault.StatFile(s.keys.SaltPath())
	if err != nil {
		return Info{}, err
	}

	return Info{
		Vault:     vaultInfo,
		Reference: refInfo,
		KeyFile:   keyFile,
		SaltFile:  saltFile,
		KDF:       s.keys.KDF(),
	}, nil
}
