package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsechapman/kmcluster"
)

func TestEdgeCases_Assign(t *testing.T) {
	ctx := context.Background()
	path := seedDataset(t, t.TempDir(), "items.csv", [][]float64{{0, 0}, {1, 1}, {9, 9}})
	eng := open(t, path, kmcluster.WithK(2), kmcluster.WithSeed(1))

	t.Run("Empty ID", func(t *testing.T) {
		_, err := eng.Assign(ctx, []float64{0, 0}, "")
		assert.ErrorIs(t, err, kmcluster.ErrInvalidID)
		assert.Equal(t, kmcluster.KindConfiguration, kmcluster.KindOf(err))
	})

	t.Run("ID With Comma", func(t *testing.T) {
		_, err := eng.Assign(ctx, []float64{0, 0}, "a,b")
		assert.ErrorIs(t, err, kmcluster.ErrInvalidID)
	})

	t.Run("Wrong Dimension", func(t *testing.T) {
		_, err := eng.Assign(ctx, []float64{0, 0, 0}, "three")
		require.Error(t, err)
		assert.Equal(t, kmcluster.KindDimensionMismatch, kmcluster.KindOf(err))
	})

	t.Run("Empty Vector", func(t *testing.T) {
		got, err := eng.Assign(ctx, []float64{}, "later")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	// Rejected calls leave no trace in the dataset.
	ids := make([]string, 0, 4)
	for _, r := range eng.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"item-0", "item-1", "item-2", "later"}, ids)
}

func TestEdgeCases_MixedDimensions(t *testing.T) {
	path := seedDataset(t, t.TempDir(), "items.csv", [][]float64{{0, 0}, {0, 1}, {5, 5, 5}, {10, 10}})
	eng := open(t, path, kmcluster.WithK(1), kmcluster.WithSeed(3))

	// Records whose dimension disagrees with the centroid are left out of training.
	sizes := eng.ClusterSizes()
	require.Len(t, sizes, 1)
	assert.LessOrEqual(t, sizes[0], 3)
}

func TestEdgeCases_EmptyDataset(t *testing.T) {
	path := seedDataset(t, t.TempDir(), "items.csv", nil)
	eng := open(t, path, kmcluster.WithK(3))

	assert.Empty(t, eng.Centroids())
	_, err := eng.Assign(context.Background(), []float64{1}, "x")
	assert.ErrorIs(t, err, kmcluster.ErrNotTrained)
}
