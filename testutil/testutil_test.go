package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsechapman/kmcluster/dataset"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(42)
	vecs := rng.UniformVectors(10, 3)
	require.Len(t, vecs, 10)
	for _, v := range vecs {
		require.Len(t, v, 3)
		for _, x := range v {
			assert.GreaterOrEqual(t, x, 0.0)
			assert.Less(t, x, 1.0)
		}
	}
}

func TestGaussianVectors(t *testing.T) {
	vecs := NewRNG(1).GaussianVectors(5, 4)
	require.Len(t, vecs, 5)
	assert.Len(t, vecs[4], 4)
}

func TestReset(t *testing.T) {
	rng := NewRNG(7)
	a := rng.Float64()
	rng.Reset()
	assert.Equal(t, a, rng.Float64())
	assert.Equal(t, int64(7), rng.Seed())
	assert.Equal(t, NewRNG(7).Source().Int63(), rng.Source().Int63())
}

func TestBlobs(t *testing.T) {
	centers := [][]float64{{0, 0}, {100, 100}}
	points, labels := NewRNG(3).Blobs(centers, 20, 0.1)
	require.Len(t, points, 40)
	require.Len(t, labels, 40)

	for i, p := range points {
		c := centers[labels[i]]
		assert.InDelta(t, c[0], p[0], 1.0)
		assert.InDelta(t, c[1], p[1], 1.0)
	}
}

func TestRecords(t *testing.T) {
	records := Records("pt", [][]float64{{1}, {2}})
	require.Len(t, records, 2)
	assert.Equal(t, "pt-1", records[1].ID)
	assert.Equal(t, dataset.Unassigned, records[0].Cluster)

	ptrs := Pointers(records)
	ptrs[0].Cluster = 5
	assert.Equal(t, 5, records[0].Cluster)
}

func TestPurity(t *testing.T) {
	assert.Equal(t, 1.0, Purity([]int{0, 0, 1, 1}, []int{1, 1, 0, 0}))
	assert.Equal(t, 0.5, Purity([]int{0, 0, 1, 1}, []int{0, 0, 0, 0}))
	assert.Equal(t, 0.0, Purity(nil, nil))
}
