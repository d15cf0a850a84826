package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/pipewright/pkg/adapters/file"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements DocumentStore
var _ ports.DocumentStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDocumentStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ci", &domain.Document{Name: "ci", Text: "stages:\n"}))

	_, err := os.Stat(filepath.Join(dir, "ci.json"))
	require.NoError(t, err, "document should be stored as <name>.json")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not survive a save")
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStore_ListsTmpPrefixedNames(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tmp-build", &domain.Document{}))

	_, err := store.Load(ctx, "tmp-build")
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-build"}, names)

	// A leftover in-flight file from an interrupted save is not a document.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-build-123.json.tmp"), []byte("{}"), 0644))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-build"}, names)
}

func TestFileStore_InvalidNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Save(ctx, name, &domain.Document{}), domain.ErrInvalidName)
			_, err := store.Load(ctx, name)
			assert.ErrorIs(t, err, domain.ErrInvalidName)
			assert.NotErrorIs(t, err, domain.ErrDocumentNotFound)
		})
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".pipewright", "documents"), store.BasePath)
}
