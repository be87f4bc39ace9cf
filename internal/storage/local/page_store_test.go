package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("ExistingDirectory", func(t *testing.T) {
		store, err := New(Config{BaseDir: t.TempDir()})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("CreatesMissingDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pages", "nested")
		_, err := New(Config{BaseDir: dir})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("EmptyBaseDir", func(t *testing.T) {
		_, err := New(Config{BaseDir: "   "})
		assert.Error(t, err)
	})

	t.Run("PathIsAFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		_, err := New(Config{BaseDir: path})
		assert.ErrorContains(t, err, "not a directory")
	})
}

func TestPutPage(t *testing.T) {
	dir := t.TempDir()
	store, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	path, err := store.PutPage(context.Background(), 7, "png", []byte("pixels"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "page_007.png"), path, "index is zero padded so listings sort in page order")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)
}

func TestPutPageRejectsBadInput(t *testing.T) {
	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	t.Run("NonPositiveIndex", func(t *testing.T) {
		_, err := store.PutPage(context.Background(), 0, "png", []byte("x"))
		assert.Error(t, err)
	})

	t.Run("MissingFormat", func(t *testing.T) {
		_, err := store.PutPage(context.Background(), 1, "", []byte("x"))
		assert.Error(t, err)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		_, err := store.PutPage(context.Background(), 1, "png", nil)
		assert.Error(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.PutPage(ctx, 1, "png", []byte("x"))
		assert.Error(t, err)
	})
}
