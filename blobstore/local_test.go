package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsechapman/kmcluster/internal/fs"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	_, err := store.Open(ctx, "poses.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Put(ctx, "poses.csv", []byte("a,1,2,\n")))

	data, err := ReadAll(ctx, store, "poses.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,1,2,\n", string(data))

	require.NoError(t, store.Put(ctx, "poses.csv", []byte("b,3,4,\n")))
	data, err = ReadAll(ctx, store, "poses.csv")
	require.NoError(t, err)
	assert.Equal(t, "b,3,4,\n", string(data))

	_, err = os.Stat(filepath.Join(tmpDir, "poses.csv.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must not survive a successful put")

	require.NoError(t, store.Put(ctx, "nested/other.csv", nil))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/other.csv", "poses.csv"}, names)

	names, err = store.List(ctx, "nested/")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/other.csv"}, names)

	require.NoError(t, store.Delete(ctx, "poses.csv"))
	require.NoError(t, store.Delete(ctx, "poses.csv"))
	_, err = store.Open(ctx, "poses.csv")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_PutFailureKeepsPreviousContent(t *testing.T) {
	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"TornWrite", fs.Fault{FailAfterBytes: 3}},
		{"Sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"Close", fs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"Rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			ffs := fs.NewFaultyFS(nil)
			store := NewLocalStoreFS(tmpDir, ffs)
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "poses.csv", []byte("old,1,\n")))

			ffs.AddRule(".tmp", tt.fault)
			err := store.Put(ctx, "poses.csv", []byte("new,2,\nmore,3,\n"))
			assert.ErrorIs(t, err, fs.ErrInjected)

			data, err := os.ReadFile(filepath.Join(tmpDir, "poses.csv"))
			require.NoError(t, err)
			assert.Equal(t, "old,1,\n", string(data))

			_, err = os.Stat(filepath.Join(tmpDir, "poses.csv.tmp"))
			assert.True(t, os.IsNotExist(err))
		})
	}
}
