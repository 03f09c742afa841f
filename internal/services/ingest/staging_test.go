package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/common"
)

func writeStagedFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

func TestOSStagingListMissingDirectory(t *testing.T) {
	staging := NewOSStaging(&common.StagingConfig{
		Dir: filepath.Join(t.TempDir(), "does-not-exist"),
	}, arbor.NewLogger())

	paths, exists, err := staging.List(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, paths)
}

func TestOSStagingListFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	lower := writeStagedFile(t, dir, "policy.pdf")
	upper := writeStagedFile(t, dir, "RETURNS.PDF")
	writeStagedFile(t, dir, "notes.txt")
	writeStagedFile(t, dir, "archive.zip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.pdf"), 0o755))

	staging := NewOSStaging(&common.StagingConfig{Dir: dir}, arbor.NewLogger())

	paths, exists, err := staging.List(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.ElementsMatch(t, []string{lower, upper}, paths,
		"suffix matching is case-insensitive and directories are ignored")
}

func TestOSStagingListEmptyDirectory(t *testing.T) {
	staging := NewOSStaging(&common.StagingConfig{Dir: t.TempDir()}, arbor.NewLogger())

	paths, exists, err := staging.List(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, paths)
}

func TestOSStagingDelete(t *testing.T) {
	dir := t.TempDir()
	path := writeStagedFile(t, dir, "policy.pdf")

	staging := NewOSStaging(&common.StagingConfig{Dir: dir}, arbor.NewLogger())
	require.NoError(t, staging.Delete(context.Background(), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.Error(t, staging.Delete(context.Background(), path), "deleting twice fails")
}

func TestOSStagingCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeStagedFile(t, dir, "policy.pdf")
	doc := writeStagedFile(t, dir, "policy.docx")

	staging := NewOSStaging(&common.StagingConfig{
		Dir:        dir,
		Extensions: []string{".docx"},
	}, arbor.NewLogger())

	paths, _, err := staging.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, paths)
}
