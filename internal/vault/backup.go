// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/utils"
)

const (
	// BackupTimeLayout is the timestamp layout in backup file names.
	BackupTimeLayout = "20060102150405"

	backupInfix         = ".backup_"
	maxBackupsPerSecond = 1000
)

// BackupInfo describes one backup file found next to the data file.
type BackupInfo struct {
	Path      string
	CreatedAt time.Time
	// Seq disambiguates backups created within the same second.
	Seq  int
	Size int64
}

// Backup copies the current ciphertext to <data>.backup_<YYYYMMDDHHMMSS>,
// adding a _N suffix when that name is taken. ok is false, with no error,
// when there is no data file to back up. Backup does not need the key.
func (v *Vault) Backup(ctx context.Context) (path string, ok bool, err error) {
	if err = ctx.Err(); err != nil {
		return "", false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	return v.backupLocked()
}

// BackupTo copies the current ciphertext to an explicit path, which must not
// exist yet.
func (v *Vault) BackupTo(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	exists, err := utils.Exists(v.dataPath)
	if err != nil || !exists {
		return false, err
	}
	if err = utils.CopyFile(v.dataPath, path, utils.OwnerOnly); err != nil {
		return false, fmt.Errorf("backup: %w", err)
	}

	v.logger.Info().Str("path", path).Msg("vault data backed up")
	return true, nil
}

func (v *Vault) backupLocked() (string, bool, error) {
	exists, err := utils.Exists(v.dataPath)
	if err != nil || !exists {
		return "", false, err
	}

	base := v.dataPath + backupInfix + v.now().Format(BackupTimeLayout)
	for seq := 0; seq < maxBackupsPerSecond; seq++ {
		path := base
		if seq > 0 {
			path = base + "_" + strconv.Itoa(seq)
		}

		err = utils.CopyFile(v.dataPath, path, utils.OwnerOnly)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("backup: %w", err)
		}

		v.logger.Info().Str("path", path).Msg("vault data backed up")
		return path, true, nil
	}

	return "", false, ErrBackupExhausted
}

// Restore replaces the data file with backupPath after checking that the
// backup decrypts into a valid record under the loaded key. On any failure
// the live data file is left untouched.
func (v *Vault) Restore(ctx context.Context, backupPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opened {
		return ErrNotOpen
	}

	data, err := utils.ReadFile(backupPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, backupPath)
	}
	if err != nil {
		return err
	}

	if _, err = Decrypt(data, v.key); err != nil {
		return fmt.Errorf("restore %s: %w", backupPath, err)
	}

	if err = utils.AtomicWriteFile(v.dataPath, data, utils.OwnerOnly); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	v.logger.Info().Str("path", backupPath).Msg("vault data restored")
	return nil
}

// ListBackups returns the backups of the data file, newest first. Files
// whose names do not carry a valid timestamp are ignored.
func (v *Vault) ListBackups() ([]BackupInfo, error) {
	dir := filepath.Dir(v.dataPath)
	prefix := filepath.Base(v.dataPath) + backupInfix

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", utils.ErrIOFailure, dir, err)
	}

	var backups []BackupInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}

		created, seq, ok := parseBackupSuffix(strings.TrimPrefix(name, prefix))
		if !ok {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(dir, name),
			CreatedAt: created,
			Seq:       seq,
			Size:      info.Size(),
		})
	}

	slices.SortFunc(backups, func(a, b BackupInfo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.Seq - a.Seq
	})

	return backups, nil
}

// PruneBackups securely deletes all but the newest keep backups and returns
// the removed paths.
func (v *Vault) PruneBackups(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}

	backups, err := v.ListBackups()
	if err != nil {
		return nil, err
	}
	if len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	for _, b := range backups[keep:] {
		if err = ctx.Err(); err != nil {
			return removed, err
		}
		if err = v.SecureDelete(b.Path); err != nil {
			return removed, err
		}
		removed = append(removed, b.Path)
	}
	return removed, nil
}

// parseBackupSuffix parses "YYYYMMDDHHMMSS" or "YYYYMMDDHHMMSS_N".
func parseBackupSuffix(s string) (time.Time, int, bool) {
	stamp, seqStr, hasSeq := strings.Cut(s, "_")

	created, err := time.ParseInLocation(BackupTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}

	if !hasSeq {
		return created, 0, true
	}
	seq, err := strconv.Atoi(seqStr)
	if err != nil || seq < 1 {
		return time.Time{}, 0, false
	}
	return created, seq, true
}
