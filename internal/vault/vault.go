// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault stores a single encrypted [models.VaultRecord] on disk.
//
// A Vault owns the data file and a loaded copy of the key obtained from a
// [crypto.KeyStore]. Every write goes through a temporary file and an atomic
// rename, and every file it creates is readable by the owner only.
//
// A Vault assumes a single writer. Concurrent use from one process is
// serialised by an internal mutex; concurrent use from several processes is
// not supported.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/models"
)

// Vault is the encrypted record store.
type Vault struct {
	keys     crypto.KeyStore
	dataPath string

	now         func() time.Time
	shredPasses int
	logger      *logger.Logger

	mu     sync.Mutex
	key    crypto.Key
	opened bool
}

// Option configures a Vault.
type Option func(*Vault)

// WithClock replaces time.Now, which names backups.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		v.now = now
	}
}

// WithShredPasses sets the overwrite passes used by SecureDelete and
// PruneBackups. Values below [utils.MinShredPasses] are raised to it.
func WithShredPasses(passes int) Option {
	return func(v *Vault) {
		v.shredPasses = max(passes, utils.MinShredPasses)
	}
}

// WithLogger attaches a logger. Without it the vault logs nothing.
func WithLogger(log *logger.Logger) Option {
	return func(v *Vault) {
		v.logger = log
	}
}

// New builds a Vault over the data file at dataPath. Call Open before using
// operations that need the key.
func New(keys crypto.KeyStore, dataPath string, opts ...Option) *Vault {
	v := &Vault{
		keys:        keys,
		dataPath:    dataPath,
		now:         time.Now,
		shredPasses: utils.MinShredPasses,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DataPath returns the path of the encrypted data file.
func (v *Vault) DataPath() string { return v.dataPath }

// Open loads the key, finishing or discarding an interrupted rotation first.
//
// With neither key nor data on disk, Open generates and saves a new key.
// A missing key next to existing data is [crypto.ErrKeyNotFound]: the data
// cannot be recovered and a fresh key must not silently replace the old one.
func (v *Vault) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dataExists, err := utils.Exists(v.dataPath)
	if err != nil {
		return err
	}

	if err = v.reconcilePending(dataExists); err != nil {
		return err
	}

	key, err := v.keys.LoadKey()
	switch {
	case errors.Is(err, crypto.ErrKeyNotFound) && !dataExists:
		if key, err = v.keys.GenerateKey(); err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		if err = v.keys.SaveKey(key); err != nil {
			return err
		}
		v.logger.Info().Str("fingerprint", crypto.Fingerprint(key)).Msg("generated vault key on first run")
	case err != nil:
		return fmt.Errorf("open vault: %w", err)
	}

	v.key = key
	v.opened = true
	return nil
}

// reconcilePending resolves a rotation interrupted between the data write
// and the key commit. If the data authenticates under the staged key the
// rotation is committed, otherwise the staged key is discarded.
func (v *Vault) reconcilePending(dataExists bool) error {
	pending, err := v.keys.PendingKey()
	if errors.Is(err, crypto.ErrKeyNotFound) {
		return nil
	}
	if err != nil && !errors.Is(err, crypto.ErrKeyCorrupt) {
		return fmt.Errorf("read pending key: %w", err)
	}

	if err == nil && dataExists {
		blob, readErr := v.readBlob()
		if readErr != nil {
			return readErr
		}
		if _, decErr := Decrypt(blob, pending); decErr == nil {
			v.logger.Warn().Str("fingerprint", crypto.Fingerprint(pending)).Msg("completing interrupted key rotation")
			return v.keys.CommitRotation()
		}
	}

	v.logger.Warn().Msg("discarding staged key from interrupted rotation")
	return v.keys.AbortRotation()
}

// Key returns the loaded key.
func (v *Vault) Key() (crypto.Key, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opened {
		return crypto.Key{}, ErrNotOpen
	}
	return v.key, nil
}

// Save encrypts record under the loaded key and atomically replaces the
// data file.
func (v *Vault) Save(ctx context.Context, record models.VaultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opened {
		return ErrNotOpen
	}
	return v.writeRecord(record, v.key)
}

// Load decrypts the data file. A missing file yields [models.EmptyRecord].
// Integrity and schema errors are returned as is.
func (v *Vault) Load(ctx context.Context) (models.VaultRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultRecord{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opened {
		return models.VaultRecord{}, ErrNotOpen
	}
	return v.loadWith(v.key)
}

// VerifyIntegrity reports whether the data file decrypts and validates.
// A missing data file is valid. It never writes: on a vault that is not open
// the live key is read but never generated, and an interrupted rotation is
// left for Open to reconcile.
func (v *Vault) VerifyIntegrity(ctx context.Context) bool {
	return v.CheckIntegrity(ctx) == nil
}

// CheckIntegrity is VerifyIntegrity with the reason for a failure.
func (v *Vault) CheckIntegrity(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	err := v.checkLocked()
	if err != nil {
		v.logger.Error().Err(err).Msg("integrity check failed")
	}
	return err
}

func (v *Vault) checkLocked() error {
	blob, err := v.readBlob()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if v.opened {
		_, err = Decrypt(blob, v.key)
		return err
	}

	key, err := v.keys.LoadKey()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	_, err = Decrypt(blob, key)
	if errors.Is(err, ErrIntegrityViolation) {
		// data written by a rotation whose key commit was interrupted
		if pending, pendingErr := v.keys.PendingKey(); pendingErr == nil {
			if _, decErr := Decrypt(blob, pending); decErr == nil {
				v.logger.Warn().Msg("data is encrypted under the staged key of an interrupted rotation")
				return nil
			}
		}
	}
	return err
}

func (v *Vault) loadWith(key crypto.Key) (models.VaultRecord, error) {
	blob, err := v.readBlob()
	if errors.Is(err, os.ErrNotExist) {
		return models.EmptyRecord(), nil
	}
	if err != nil {
		return models.VaultRecord{}, err
	}
	return Decrypt(blob, key)
}

func (v *Vault) readBlob() (Blob, error) {
	data, err := utils.ReadFile(v.dataPath)
	if err != nil {
		return nil, err
	}
	return Blob(data), nil
}

func (v *Vault) writeRecord(record models.VaultRecord, key crypto.Key) error {
	blob, err := Encrypt(record, key)
	if err != nil {
		return err
	}
	return v.writeBlob(blob)
}

func (v *Vault) writeBlob(blob Blob) error {
	if err := utils.AtomicWriteFile(v.dataPath, blob, utils.OwnerOnly); err != nil {
		return fmt.Errorf("write vault data: %w", err)
	}
	return nil
}
