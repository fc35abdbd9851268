// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/utils"
)

// PendingSuffix is appended to the key path to name a staged rotation key.
const PendingSuffix = ".pending"

// KeyManager is the file-backed [KeyStore]. It also owns the passphrase
// salt file used to reproduce a derived key.
type KeyManager struct {
	keyPath     string
	saltPath    string
	kdf         KDFParams
	shredPasses int

	logger *logger.Logger
}

// Option configures a KeyManager.
type Option func(*KeyManager)

// WithKDF selects the KDF used by DeriveKey.
func WithKDF(params KDFParams) Option {
	return func(m *KeyManager) {
		m.kdf = params
	}
}

// WithShredPasses sets how many overwrite passes AbortRotation uses when it
// removes a staged key.
func WithShredPasses(passes int) Option {
	return func(m *KeyManager) {
		m.shredPasses = passes
	}
}

// NewKeyManager builds a KeyManager for the key file at keyPath and the salt
// file at saltPath. The KDF defaults to [DefaultKDFParams].
func NewKeyManager(keyPath, saltPath string, log *logger.Logger, opts ...Option) (*KeyManager, error) {
	if keyPath == "" {
		return nil, errors.New("key path must not be empty")
	}

	m := &KeyManager{
		keyPath:     keyPath,
		saltPath:    saltPath,
		kdf:         DefaultKDFParams(),
		shredPasses: utils.MinShredPasses,
		logger:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Nop()
	}

	if err := m.kdf.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// KeyPath returns the live key path.
func (m *KeyManager) KeyPath() string { return m.keyPath }

// PendingPath returns the staged rotation key path.
func (m *KeyManager) PendingPath() string { return m.keyPath + PendingSuffix }

// SaltPath returns the salt file path.
func (m *KeyManager) SaltPath() string { return m.saltPath }

// KDF returns the configured derivation parameters.
func (m *KeyManager) KDF() KDFParams { return m.kdf }

// GenerateKey implements [KeyStore].
func (m *KeyManager) GenerateKey() (Key, error) {
	return NewKey()
}

// DeriveKey stretches passphrase with the configured KDF. A nil salt makes
// DeriveKey draw a fresh one, which is returned so it can be persisted with
// SaveSalt.
func (m *KeyManager) DeriveKey(passphrase []byte, salt Salt) (Key, Salt, error) {
	if len(passphrase) == 0 {
		return Key{}, nil, ErrEmptyPassphrase
	}

	if salt == nil {
		var err error
		if salt, err = NewSalt(); err != nil {
			return Key{}, nil, err
		}
	}

	key, err := Derive(m.kdf, passphrase, salt)
	if err != nil {
		return Key{}, nil, err
	}

	m.logger.Debug().
		Str("kdf", string(m.kdf.Algorithm)).
		Str("fingerprint", Fingerprint(key)).
		Msg("derived key from passphrase")

	return key, salt, nil
}

// LoadKey implements [KeyStore].
func (m *KeyManager) LoadKey() (Key, error) {
	return m.readKey(m.keyPath)
}

// SaveKey implements [KeyStore].
func (m *KeyManager) SaveKey(key Key) error {
	if err := utils.AtomicWriteFile(m.keyPath, []byte(key.Encode()), utils.OwnerOnly); err != nil {
		return fmt.Errorf("save key: %w", err)
	}

	m.logger.Info().Str("fingerprint", Fingerprint(key)).Msg("key saved")
	return nil
}

// Rotate implements [KeyStore]. The live key must exist.
func (m *KeyManager) Rotate(newKey Key) (Key, error) {
	prev, err := m.LoadKey()
	if err != nil {
		return Key{}, fmt.Errorf("rotate: load live key: %w", err)
	}

	if err = utils.AtomicWriteFile(m.PendingPath(), []byte(newKey.Encode()), utils.OwnerOnly); err != nil {
		return Key{}, fmt.Errorf("rotate: stage key: %w", err)
	}

	m.logger.Info().
		Str("from", Fingerprint(prev)).
		Str("to", Fingerprint(newKey)).
		Msg("key rotation staged")

	return prev, nil
}

// PendingKey implements [KeyStore].
func (m *KeyManager) PendingKey() (Key, error) {
	return m.readKey(m.PendingPath())
}

// CommitRotation implements [KeyStore]. A salt staged for the pending key
// is committed first, so a crash between the two renames leaves the new salt
// next to a pending key that the next Open commits.
func (m *KeyManager) CommitRotation() error {
	pending, err := m.PendingKey()
	if err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}

	if err = m.commitSalt(pending); err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}

	if err = utils.Rename(m.PendingPath(), m.keyPath); err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}

	m.logger.Info().Str("fingerprint", Fingerprint(pending)).Msg("key rotation committed")
	return nil
}

// AbortRotation implements [KeyStore]. A staged salt is discarded too.
func (m *KeyManager) AbortRotation() error {
	if err := utils.Shred(m.PendingPath(), m.shredPasses); err != nil {
		return fmt.Errorf("abort rotation: %w", err)
	}
	if err := m.discardStagedSalt(); err != nil {
		return fmt.Errorf("abort rotation: %w", err)
	}

	m.logger.Warn().Msg("key rotation aborted")
	return nil
}

// SaveSalt atomically writes the salt file with the configured KDF
// parameters.
func (m *KeyManager) SaveSalt(salt Salt) error {
	if m.saltPath == "" {
		return errors.New("salt path is not configured")
	}

	data, err := json.Marshal(SaltRecord{KDFParams: m.kdf, Salt: salt})
	if err != nil {
		return fmt.Errorf("encode salt: %w", err)
	}
	if err = utils.AtomicWriteFile(m.saltPath, data, utils.OwnerOnly); err != nil {
		return fmt.Errorf("save salt: %w", err)
	}
	return nil
}

// PendingSaltPath returns the path of a salt staged for a rotation.
func (m *KeyManager) PendingSaltPath() string { return m.saltPath + PendingSuffix }

// StageSalt writes salt next to the live salt file, bound to the
// fingerprint of key. It replaces the live salt only when CommitRotation
// promotes that same key; any other commit or an abort discards it.
func (m *KeyManager) StageSalt(salt Salt, key Key) error {
	if m.saltPath == "" {
		return errors.New("salt path is not configured")
	}

	data, err := json.Marshal(SaltRecord{KDFParams: m.kdf, Salt: salt, KeyFingerprint: Fingerprint(key)})
	if err != nil {
		return fmt.Errorf("encode salt: %w", err)
	}
	if err = utils.AtomicWriteFile(m.PendingSaltPath(), data, utils.OwnerOnly); err != nil {
		return fmt.Errorf("stage salt: %w", err)
	}
	return nil
}

func (m *KeyManager) commitSalt(key Key) error {
	if m.saltPath == "" {
		return nil
	}

	data, err := utils.ReadFile(m.PendingSaltPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var rec SaltRecord
	if err = json.Unmarshal(data, &rec); err != nil || rec.KeyFingerprint != Fingerprint(key) {
		m.logger.Warn().Msg("discarding staged salt that does not belong to the committed key")
		return m.discardStagedSalt()
	}

	if err = utils.Rename(m.PendingSaltPath(), m.saltPath); err != nil {
		return err
	}
	m.logger.Info().Str("fingerprint", rec.KeyFingerprint).Msg("passphrase salt committed")
	return nil
}

func (m *KeyManager) discardStagedSalt() error {
	if m.saltPath == "" {
		return nil
	}
	if err := os.Remove(m.PendingSaltPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove staged salt: %w", utils.ErrIOFailure, err)
	}
	return nil
}

// LoadSalt reads the salt file. The returned record carries the KDF
// parameters the salt was written with, which may differ from the manager's
// current configuration.
func (m *KeyManager) LoadSalt() (SaltRecord, error) {
	data, err := utils.ReadFile(m.saltPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SaltRecord{}, ErrSaltNotFound
		}
		return SaltRecord{}, err
	}

	var rec SaltRecord
	if err = json.Unmarshal(data, &rec); err != nil {
		return SaltRecord{}, err
	}
	return rec, nil
}

// RecoverKey re-derives the key from passphrase using the persisted salt and
// the KDF parameters stored with it.
func (m *KeyManager) RecoverKey(passphrase []byte) (Key, error) {
	rec, err := m.LoadSalt()
	if err != nil {
		return Key{}, err
	}
	return Derive(rec.KDFParams, passphrase, rec.Salt)
}

func (m *KeyManager) readKey(path string) (Key, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Key{}, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}
		return Key{}, err
	}

	key, err := ParseKey(data)
	if err != nil {
		return Key{}, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}
