package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/mock"
	"github.com/MKhiriev/neuro-vault/internal/validators"
	"github.com/MKhiriev/neuro-vault/internal/vault"
	"github.com/MKhiriev/neuro-vault/models"
)

var stampTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)

type vaultFixture struct {
	dir  string
	svc  *vaultService
	repo *mock.MockAuditRepository
	// events collects every recorded audit event in order.
	events *[]models.AuditEvent
}

func newVaultFixture(t *testing.T, retention int) vaultFixture {
	t.Helper()
	dir := t.TempDir()

	keys, err := crypto.NewKeyManager(filepath.Join(dir, "secret.key"), filepath.Join(dir, "secret.salt"), logger.Nop())
	require.NoError(t, err)

	// backups taken within one second get _N suffixes, so a moving clock
	// keeps ordering observable
	clock := stampTime
	v := vault.New(keys, filepath.Join(dir, "vault_data.json"), vault.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	refs := face.NewReferenceStore(filepath.Join(dir, "face_encodings.bin"), logger.Nop())

	ctrl := gomock.NewController(t)
	repo := mock.NewMockAuditRepository(ctrl)
	events := &[]models.AuditEvent{}
	repo.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e models.AuditEvent) error {
		*events = append(*events, e)
		return nil
	}).AnyTimes()

	svc := NewVaultService(v, keys, refs, retention, repo, logger.Nop()).(*vaultService)
	svc.now = func() time.Time { return stampTime }

	return vaultFixture{dir: dir, svc: svc, repo: repo, events: events}
}

func (f vaultFixture) lastEvent(t *testing.T) models.AuditEvent {
	t.Helper()
	require.NotEmpty(t, *f.events)
	return (*f.events)[len(*f.events)-1]
}

func TestVaultService_SaveAndReadNotes(t *testing.T) {
	f := newVaultFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))

	saved, err := f.svc.SaveNotes(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14 15:09:26", saved.LastModified)
	assert.Equal(t, models.OpNotesSave, f.lastEvent(t).Operation)

	got, err := f.svc.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, models.OpNotesRead, f.lastEvent(t).Operation)
	assert.Equal(t, models.OutcomeSuccess, f.lastEvent(t).Outcome)
}

func TestVaultService_SaveNotesRejectsInvalidUTF8(t *testing.T) {
	f := newVaultFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))

	_, err := f.svc.SaveNotes(ctx, "broken \xff")
	assert.ErrorIs(t, err, validators.ErrInvalidNotes)
	assert.Equal(t, models.OutcomeFailure, f.lastEvent(t).Outcome)

	_, err = os.Stat(filepath.Join(f.dir, "vault_data.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestVaultService_NotesBeforeOpen(t *testing.T) {
	f := newVaultFixture(t, 0)

	_, err := f.svc.Notes(context.Background())
	assert.ErrorIs(t, err, vault.ErrNotOpen)
	assert.Equal(t, models.OutcomeFailure, f.lastEvent(t).Outcome)
}

func TestVaultService_VerifyTampered(t *testing.T) {
	f := newVaultFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))
	_, err := f.svc.SaveNotes(ctx, "secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Verify(ctx))

	path := filepath.Join(f.dir, "vault_data.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0o600))

	assert.ErrorIs(t, f.svc.Verify(ctx), vault.ErrIntegrityViolation)
	assert.Equal(t, models.OpVerify, f.lastEvent(t).Operation)
	assert.Equal(t, models.OutcomeFailure, f.lastEvent(t).Outcome)
}

func TestVaultService_BackupAndRestore(t *testing.T) {
	f := newVaultFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))

	_, err := f.svc.SaveNotes(ctx, "first")
	require.NoError(t, err)

	path, ok, err := f.svc.Backup(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, f.lastEvent(t).Detail)

	_, err = f.svc.SaveNotes(ctx, "second")
	require.NoError(t, err)

	require.NoError(t, f.svc.Restore(ctx, path))
	got, err := f.svc.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Notes)

	backups, err := f.svc.Backups(ctx)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestVaultService_RotatePrunesBackups(t *testing.T) {
	f := newVaultFixture(t, 1)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))

	_, err := f.svc.SaveNotes(ctx, "rotate me")
	require.NoError(t, err)
	_, _, err = f.svc.Backup(ctx)
	require.NoError(t, err)
	_, _, err = f.svc.Backup(ctx)
	require.NoError(t, err)

	result, err := f.svc.Rotate(ctx, nil)
	require.NoError(t, err)
	assert.NotEqual(t, result.Previous, result.Current)

	backups, err := f.svc.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, result.BackupPath, backups[0].Path)

	got, err := f.svc.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotate me", got.Notes)

	var rotated bool
	for _, e := range *f.events {
		rotated = rotated || (e.Operation == models.OpRotateKey && e.Outcome == models.OutcomeSuccess)
	}
	assert.True(t, rotated)
}

func TestVaultService_Shred(t *testing.T) {
	f := newVaultFixture(t, 0)
	path := filepath.Join(f.dir, "scratch.txt")
	require.NoError(t, os.WriteFile(path, []byte("plaintext"), 0o600))

	require.NoError(t, f.svc.Shred(context.Background(), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, models.OpShred, f.lastEvent(t).Operation)
}

func TestVaultService_InfoWithoutOpen(t *testing.T) {
	f := newVaultFixture(t, 0)

	info, err := f.svc.Info(context.Background())
	require.NoError(t, err)

	assert.False(t, info.Vault.KeyLoaded)
	assert.False(t, info.Vault.Data.Exists)
	assert.False(t, info.KeyFile.Exists)
	assert.False(t, info.Reference.Enrolled)
	assert.Equal(t, crypto.KDFPBKDF2SHA256, info.KDF.Algorithm)
}

func TestVaultService_InfoAfterOpen(t *testing.T) {
	f := newVaultFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx))

	info, err := f.svc.Info(ctx)
	require.NoError(t, err)

	assert.True(t, info.Vault.KeyLoaded)
	assert.True(t, info.KeyFile.Exists)
	assert.Len(t, info.Vault.Fingerprint, 16)
}
