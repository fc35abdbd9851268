package face

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ReferenceStore {
	t.Helper()
	return NewReferenceStore(filepath.Join(t.TempDir(), "face_encodings.bin"), logger.Nop())
}

func TestReferenceStore_LoadMissingIsEmpty(t *testing.T) {
	s := newTestStore(t)

	set, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, set)

	info, err := s.Info()
	require.NoError(t, err)
	assert.False(t, info.Enrolled)
}

func TestReferenceStore_EnrollAndLoad(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Enroll(Embedding{0.1, 0.2}, nil, Embedding{0.3, 0.4}))

	set, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, EmbeddingSet{{0.1, 0.2}, {0.3, 0.4}}, set)

	st, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, ReferenceInfo{Path: s.Path(), Enrolled: true, Embeddings: 2, Dimension: 2}, info)
}

func TestReferenceStore_EnrollNoFace(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Enroll(), ErrNoFaceDetected)
	assert.ErrorIs(t, s.Enroll(nil, nil), ErrNoFaceDetected)

	_, err := os.Stat(s.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReferenceStore_EnrollMixedDimensions(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Enroll(Embedding{1, 2}, Embedding{1}), ErrDimensionMismatch)
}

func TestReferenceStore_ReEnrollKeepsBackup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Enroll(Embedding{1, 1}))
	require.NoError(t, s.Enroll(Embedding{2, 2}))

	current, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, EmbeddingSet{{2, 2}}, current)

	previous, err := NewReferenceStore(s.Path()+BackupSuffix, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, EmbeddingSet{{1, 1}}, previous)
}

func TestReferenceStore_LoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("pickle"), 0o600))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}
