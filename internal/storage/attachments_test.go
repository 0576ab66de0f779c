package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxBytes int64) (*FileStore, afero.Fs) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	fs := afero.NewMemMapFs()
	store, err := NewFileStore(fs, "uploads", "/uploads/", maxBytes, log)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	return store, fs
}

func TestFileStore_Save(t *testing.T) {
	store, fs := newTestStore(t, 0)

	url, err := store.Save(context.Background(), 7, "Scan Result.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/7_1700000000.pdf", url)

	data, err := afero.ReadFile(fs, "uploads/7_1700000000.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	f, err := store.FileSystem().Open("/7_1700000000.pdf")
	require.NoError(t, err)
	served, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(served))
	require.NoError(t, f.Close())
}

func TestFileStore_SaveRejectsOversize(t *testing.T) {
	store, fs := newTestStore(t, 4)

	_, err := store.Save(context.Background(), 1, "big.txt", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, err := afero.Exists(fs, "uploads/1_1700000000.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStore_Remove(t *testing.T) {
	store, fs := newTestStore(t, 0)
	ctx := context.Background()

	url, err := store.Save(ctx, 2, "a.png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, url))

	exists, err := afero.Exists(fs, "uploads/2_1700000000.png")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Remove(ctx, url))
	assert.NoError(t, store.Remove(ctx, "https://elsewhere/x.png"))
}

func TestFileStore_SameSecondUploadsGetDistinctNames(t *testing.T) {
	store, fs := newTestStore(t, 0)
	ctx := context.Background()

	first, err := store.Save(ctx, 3, "a.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	second, err := store.Save(ctx, 3, "b.PDF", strings.NewReader("second"))
	require.NoError(t, err)
	third, err := store.Save(ctx, 3, "c.pdf", strings.NewReader("third"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/3_1700000000.pdf", first)
	assert.Equal(t, "/uploads/3_1700000000_1.pdf", second)
	assert.Equal(t, "/uploads/3_1700000000_2.pdf", third)

	require.NoError(t, store.Remove(ctx, first))
	data, err := afero.ReadFile(fs, "uploads/3_1700000000_1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
