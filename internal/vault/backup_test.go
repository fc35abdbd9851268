package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_NoDataFile(t *testing.T) {
	v := newTestEnv(t).open(t)

	path, ok, err := v.Backup(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestBackup_TimestampedName(t *testing.T) {
	v := newTestEnv(t).open(t)
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, models.VaultRecord{Notes: "b"}))

	path, ok, err := v.Backup(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v.DataPath()+".backup_20260314150926", path)

	live, err := os.ReadFile(v.DataPath())
	require.NoError(t, err)
	copied, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, live, copied)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, utils.OwnerOnly, info.Mode().Perm())
}

func TestBackup_SameSecondCollision(t *testing.T) {
	v := newTestEnv(t).open(t)
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, models.VaultRecord{Notes: "b"}))

	first, _, err := v.Backup(ctx)
	require.NoError(t, err)
	second, _, err := v.Backup(ctx)
	require.NoError(t, err)
	third, _, err := v.Backup(ctx)
	require.NoError(t, err)

	assert.Equal(t, first+"_1", second)
	assert.Equal(t, first+"_2", third)
}

func TestBackupTo_ExplicitPath(t *testing.T) {
	env := newTestEnv(t)
	v := env.open(t)
	ctx := context.Background()
	target := filepath.Join(env.dir, "manual.bak")

	ok, err := v.BackupTo(ctx, target)
	require.NoError(t, err)
	assert.False(t, ok, "nothing to back up yet")

	require.NoError(t, v.Save(ctx, models.VaultRecord{Notes: "m"}))
	ok, err = v.BackupTo(ctx, target)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = v.BackupTo(ctx, target)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestRestore_Success(t *testing.T) {
	v := newTestEnv(t).open(t)
	ctx := context.Background()
	original := models.VaultRecord{Notes: "original", LastModified: "t1"}

	require.NoError(t, v.Save(ctx, original))
	backup, _, err := v.Backup(ctx)
	require.NoError(t, err)
	require.NoError(t, v.Save(ctx, models.VaultRecord{Notes: "changed", LastModified: "t2"}))

	require.NoError(t, v.Restore(ctx, backup))

	got, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestRestore_ForeignKeyRejected(t *testing.T) {
	ctx := context.Background()
	foreign := newTestEnv(t).open(t)
	require.NoError(t, foreign.Save(ctx, models.VaultRecord{Notes: "someone else"}))
	foreignBackup, _, err := foreign.Backup(ctx)
	require.NoError(t, err)

	v := newTestEnv(t).open(t)
	live := models.VaultRecord{Notes: "mine", LastModified: "now"}
	require.NoError(t, v.Save(ctx, live))
	before, err := os.ReadFile(v.DataPath())
	require.NoError(t, err)

	err = v.Restore(ctx, foreignBackup)
	require.ErrorIs(t, err, ErrIntegrityViolation)

	after, err := os.ReadFile(v.DataPath())
	require.NoError(t, err)
	assert.Equal(t, before, after, "live data must be untouched")
}

func TestRestore_CorruptBackupRejected(t *testing.T) {
	env := newTestEnv(t)
	v := env.open(t)
	bad := filepath.Join(env.dir, "bad.bak")
	require.NoError(t, os.WriteFile(bad, []byte("not a blob"), 0o600))

	assert.ErrorIs(t, v.Restore(context.Background(), bad), ErrIntegrityViolation)
}

func TestRestore_MissingBackup(t *testing.T) {
	env := newTestEnv(t)
	v := env.open(t)

	err := v.Restore(context.Background(), filepath.Join(env.dir, "nope"))
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestListBackups_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := fixedNow
	v := New(env.keys, filepath.Join(env.dir, "vault_data.json"), WithClock(func() time.Time { return now }))
	require.NoError(t, v.Open(ctx))
	require.NoError(t, v.Save(ctx, models.VaultRecord{}))

	var made []string
	for _, step := range []time.Duration{0, 0, time.Second, 0, time.Hour} {
		now = now.Add(step)
		p, _, err := v.Backup(ctx)
		require.NoError(t, err)
		made = append(made, p)
	}
	// unrelated files are ignored
	require.NoError(t, os.WriteFile(v.DataPath()+".backup_garbage", nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "other.backup_20260101000000"), nil, 0o600))

	list, err := v.ListBackups()
	require.NoError(t, err)
	require.Len(t, list, len(made))

	got := make([]string, len(list))
	for i, b := range list {
		got[i] = b.Path
	}
	assert.Equal(t, []string{made[4], made[3], made[2], made[1], made[0]}, got)
	assert.Equal(t, 1, list[3].Seq)
}

func TestPruneBackups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := fixedNow
	v := New(env.keys, filepath.Join(env.dir, "vault_data.json"), WithClock(func() time.Time { return now }))
	require.NoError(t, v.Open(ctx))
	require.NoError(t, v.Save(ctx, models.VaultRecord{}))

	var made []string
	for range 4 {
		now = now.Add(time.Minute)
		p, _, err := v.Backup(ctx)
		require.NoError(t, err)
		made = append(made, p)
	}

	removed, err := v.PruneBackups(ctx, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, made[:2], removed)

	list, err := v.ListBackups()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, made[3], list[0].Path)

	removed, err = v.PruneBackups(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestSecureDelete(t *testing.T) {
	env := newTestEnv(t, WithShredPasses(1))
	v := env.open(t)
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, models.VaultRecord{Notes: "burn"}))

	require.NoError(t, v.SecureDelete(v.DataPath()))
	_, err := os.Stat(v.DataPath())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, utils.MinShredPasses, v.shredPasses)

	assert.NoError(t, v.SecureDelete(v.DataPath()), "missing file is not an error")

	rec, err := v.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}
