package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr error
	}{
		{path: "/uploads/abc_notes.pdf", want: "abc_notes.pdf"},
		{path: "/files/abc.pdf", wantErr: ErrNotUploadsPath},
		{path: "/uploads/", wantErr: ErrInvalidName},
		{path: "/uploads/../database.db", wantErr: ErrInvalidName},
		{path: "/uploads/sub/abc.pdf", wantErr: ErrInvalidName},
		{path: `/uploads/..\secret`, wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := NameFromPath(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wwwroot", "uploads")

	_, err := NewLocalStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "a_notes.txt", []byte("hello"), "text/plain"))

	data, err := store.Load(ctx, "a_notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "a_notes.txt"))

	_, err = store.Load(ctx, "a_notes.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a_notes.txt"), ErrFileNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Save(ctx, "../escape.txt", []byte("x"), ""), ErrInvalidName)
	_, err = store.Load(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}
