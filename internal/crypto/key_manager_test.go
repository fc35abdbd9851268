package crypto

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/neuro-vault/internal/logger"
)

func newTestManager(t *testing.T, opts ...Option) *KeyManager {
	t.Helper()
	dir := t.TempDir()
	m, err := NewKeyManager(filepath.Join(dir, "secret.key"), filepath.Join(dir, "secret.salt"), logger.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewKeyManager error: %v", err)
	}
	return m
}

func TestNewKeyManager_RejectsWeakKDF(t *testing.T) {
	dir := t.TempDir()
	_, err := NewKeyManager(filepath.Join(dir, "k"), "", nil,
		WithKDF(KDFParams{Algorithm: KDFPBKDF2SHA256, Iterations: 99_999}))
	if !errors.Is(err, ErrWeakKDFParams) {
		t.Fatalf("expected ErrWeakKDFParams, got %v", err)
	}
}

func TestKeyManager_LoadKeyMissing(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.LoadKey(); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestKeyManager_SaveLoad(t *testing.T) {
	m := newTestManager(t)
	k, _ := m.GenerateKey()

	if err := m.SaveKey(k); err != nil {
		t.Fatalf("SaveKey error: %v", err)
	}

	info, err := os.Stat(m.KeyPath())
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key perm = %o, want 600", perm)
	}

	got, err := m.LoadKey()
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	if got != k {
		t.Fatalf("loaded key differs from saved key")
	}

	k2, _ := m.GenerateKey()
	if err = m.SaveKey(k2); err != nil {
		t.Fatalf("SaveKey overwrite error: %v", err)
	}
	got, _ = m.LoadKey()
	if got != k2 {
		t.Fatalf("overwrite did not replace key")
	}
}

func TestKeyManager_LoadKeyCorrupt(t *testing.T) {
	m := newTestManager(t)
	if err := os.WriteFile(m.KeyPath(), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := m.LoadKey(); !errors.Is(err, ErrKeyCorrupt) {
		t.Fatalf("expected ErrKeyCorrupt, got %v", err)
	}
}

func TestKeyManager_RotateCommit(t *testing.T) {
	m := newTestManager(t)
	oldKey, _ := m.GenerateKey()
	newKey, _ := m.GenerateKey()
	if err := m.SaveKey(oldKey); err != nil {
		t.Fatalf("SaveKey error: %v", err)
	}

	prev, err := m.Rotate(newKey)
	if err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if prev != oldKey {
		t.Fatalf("Rotate returned wrong previous key")
	}

	live, _ := m.LoadKey()
	if live != oldKey {
		t.Fatalf("live key changed before commit")
	}
	pending, err := m.PendingKey()
	if err != nil || pending != newKey {
		t.Fatalf("PendingKey = %v, %v", pending, err)
	}

	if err = m.CommitRotation(); err != nil {
		t.Fatalf("CommitRotation error: %v", err)
	}
	live, _ = m.LoadKey()
	if live != newKey {
		t.Fatalf("live key not replaced after commit")
	}
	if _, err = m.PendingKey(); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("pending key should be gone, got %v", err)
	}
}

func TestKeyManager_RotateAbort(t *testing.T) {
	m := newTestManager(t)
	oldKey, _ := m.GenerateKey()
	newKey, _ := m.GenerateKey()
	_ = m.SaveKey(oldKey)

	if _, err := m.Rotate(newKey); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if err := m.AbortRotation(); err != nil {
		t.Fatalf("AbortRotation error: %v", err)
	}

	if _, err := os.Stat(m.PendingPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pending key file still present: %v", err)
	}
	live, _ := m.LoadKey()
	if live != oldKey {
		t.Fatalf("abort must leave the live key untouched")
	}
	if err := m.AbortRotation(); err != nil {
		t.Fatalf("second AbortRotation should be a no-op, got %v", err)
	}
}

func TestKeyManager_RotateWithoutLiveKey(t *testing.T) {
	m := newTestManager(t)
	k, _ := m.GenerateKey()
	if _, err := m.Rotate(k); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := m.CommitRotation(); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("commit without pending key: expected ErrKeyNotFound, got %v", err)
	}
}

func TestKeyManager_DeriveAndRecover(t *testing.T) {
	m := newTestManager(t)
	pass := []byte("open sesame")

	k, salt, err := m.DeriveKey(pass, nil)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	if len(salt) != SaltSize {
		t.Fatalf("generated salt length = %d", len(salt))
	}
	if err = m.SaveSalt(salt); err != nil {
		t.Fatalf("SaveSalt error: %v", err)
	}

	again, _, err := m.DeriveKey(pass, salt)
	if err != nil || again != k {
		t.Fatalf("DeriveKey with same salt did not reproduce the key: %v", err)
	}

	recovered, err := m.RecoverKey(pass)
	if err != nil {
		t.Fatalf("RecoverKey error: %v", err)
	}
	if recovered != k {
		t.Fatalf("RecoverKey returned a different key")
	}

	wrong, err := m.RecoverKey([]byte("open barley"))
	if err != nil {
		t.Fatalf("RecoverKey error: %v", err)
	}
	if wrong == k {
		t.Fatalf("different passphrase must not recover the key")
	}
}

func TestKeyManager_DeriveEmptyPassphrase(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.DeriveKey(nil, nil); !errors.Is(err, ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestKeyManager_LoadSaltMissing(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.LoadSalt(); !errors.Is(err, ErrSaltNotFound) {
		t.Fatalf("expected ErrSaltNotFound, got %v", err)
	}
}

func TestKeyManager_StagedSaltCommitsWithItsKey(t *testing.T) {
	m := newTestManager(t)
	oldKey, _ := m.GenerateKey()
	_ = m.SaveKey(oldKey)
	pass := []byte("open sesame")

	oldSalt := Salt("0123456789abcdef")
	if err := m.SaveSalt(oldSalt); err != nil {
		t.Fatalf("SaveSalt error: %v", err)
	}

	derived, salt, err := m.DeriveKey(pass, nil)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	if err = m.StageSalt(salt, derived); err != nil {
		t.Fatalf("StageSalt error: %v", err)
	}

	// staged, not live
	rec, err := m.LoadSalt()
	if err != nil || string(rec.Salt) != string(oldSalt) {
		t.Fatalf("live salt changed before commit: %v", err)
	}

	if _, err = m.Rotate(derived); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if err = m.CommitRotation(); err != nil {
		t.Fatalf("CommitRotation error: %v", err)
	}

	if _, err = os.Stat(m.PendingSaltPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staged salt still present: %v", err)
	}
	recovered, err := m.RecoverKey(pass)
	if err != nil {
		t.Fatalf("RecoverKey error: %v", err)
	}
	if recovered != derived {
		t.Fatalf("RecoverKey after commit returned a different key")
	}
}

func TestKeyManager_StagedSaltForAnotherKeyIsDiscarded(t *testing.T) {
	m := newTestManager(t)
	oldKey, _ := m.GenerateKey()
	_ = m.SaveKey(oldKey)
	oldSalt := Salt("0123456789abcdef")
	_ = m.SaveSalt(oldSalt)

	// left over from a derivation that never reached its rotation
	derived, salt, _ := m.DeriveKey([]byte("open sesame"), nil)
	if err := m.StageSalt(salt, derived); err != nil {
		t.Fatalf("StageSalt error: %v", err)
	}

	random, _ := m.GenerateKey()
	if _, err := m.Rotate(random); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if err := m.CommitRotation(); err != nil {
		t.Fatalf("CommitRotation error: %v", err)
	}

	if _, err := os.Stat(m.PendingSaltPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale staged salt still present: %v", err)
	}
	rec, err := m.LoadSalt()
	if err != nil || string(rec.Salt) != string(oldSalt) {
		t.Fatalf("live salt replaced by a salt of another key: %v", err)
	}
}

func TestKeyManager_AbortDiscardsStagedSalt(t *testing.T) {
	m := newTestManager(t)
	oldKey, _ := m.GenerateKey()
	_ = m.SaveKey(oldKey)

	derived, salt, _ := m.DeriveKey([]byte("open sesame"), nil)
	_ = m.StageSalt(salt, derived)
	_, _ = m.Rotate(derived)

	if err := m.AbortRotation(); err != nil {
		t.Fatalf("AbortRotation error: %v", err)
	}
	if _, err := os.Stat(m.PendingSaltPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staged salt still present: %v", err)
	}
	if _, err := m.LoadSalt(); !errors.Is(err, ErrSaltNotFound) {
		t.Fatalf("expected ErrSaltNotFound, got %v", err)
	}
}
