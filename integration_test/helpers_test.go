package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsechapman/kmcluster"
	"github.com/tsechapman/kmcluster/blobstore"
	"github.com/tsechapman/kmcluster/dataset"
	"github.com/tsechapman/kmcluster/testutil"
)

// seedDataset writes vectors as prefix-0, prefix-1, ... into dir/name and
// returns the dataset path.
func seedDataset(t *testing.T, dir, name string, vectors [][]float64) string {
	t.Helper()
	store := dataset.NewStore(blobstore.NewLocalStore(dir), name)
	_, err := store.Save(context.Background(), testutil.Records("item", vectors))
	require.NoError(t, err)
	return filepath.Join(dir, name)
}

func open(t *testing.T, path string, opts ...kmcluster.Option) *kmcluster.Engine {
	t.Helper()
	opts = append([]kmcluster.Option{
		kmcluster.WithPath(path),
		kmcluster.WithLogger(kmcluster.NoopLogger()),
	}, opts...)
	eng, err := kmcluster.Open(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func clusters(records []dataset.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Cluster
	}
	return out
}
