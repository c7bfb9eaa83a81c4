package filerepo

import (
	"docproxy/internal/models"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadDelete_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewRepository(t.TempDir())

	err := repo.SaveFile("doc-1", strings.NewReader("hello"))
	require.NoError(t, err)

	assert.True(t, repo.FileExists("doc-1"))

	f, err := repo.LoadFile("doc-1")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = repo.DeleteFile("doc-1")
	require.NoError(t, err)
	assert.False(t, repo.FileExists("doc-1"))
}

func TestSaveFile_OverwritesExisting(t *testing.T) {
	t.Parallel()

	repo := NewRepository(t.TempDir())

	require.NoError(t, repo.SaveFile("doc-1", strings.NewReader("old")))
	require.NoError(t, repo.SaveFile("doc-1", strings.NewReader("new")))

	f, err := repo.LoadFile("doc-1")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLoadFile_NotCached(t *testing.T) {
	t.Parallel()

	repo := NewRepository(t.TempDir())

	_, err := repo.LoadFile("doc-404")

	assert.ErrorIs(t, err, models.ErrNotCached)
}

func TestDeleteFile_NotCached(t *testing.T) {
	t.Parallel()

	repo := NewRepository(t.TempDir())

	err := repo.DeleteFile("doc-404")

	assert.ErrorIs(t, err, models.ErrNotCached)
}

func TestFilePath_StripsDirectoryComponents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	repo := NewRepository(root)

	path := repo.FilePath("../../etc/passwd")

	assert.Equal(t, filepath.Join(root, "passwd"), path)
}
