package integration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsechapman/kmcluster"
	"github.com/tsechapman/kmcluster/testutil"
)

func TestQuality_SeparatedBlobs(t *testing.T) {
	centers := [][]float64{
		{0, 0, 0},
		{50, 50, 50},
		{-50, 50, -50},
	}
	rng := testutil.NewRNG(1)
	points, labels := rng.Blobs(centers, 40, 1.0)
	path := seedDataset(t, t.TempDir(), "blobs.csv", points)

	for _, policy := range []kmcluster.EmptyClusterPolicy{
		kmcluster.EmptyClusterKeep,
		kmcluster.EmptyClusterReseed,
	} {
		t.Run(policy.String(), func(t *testing.T) {
			best := 0.0
			for seed := int64(1); seed <= 40; seed++ {
				eng := open(t, path,
					kmcluster.WithK(len(centers)),
					kmcluster.WithSeed(seed),
					kmcluster.WithEmptyClusterPolicy(policy),
				)
				purity := testutil.Purity(labels, clusters(eng.Records()))
				if purity > best {
					best = purity
				}
				_ = eng.Close()
			}
			// Some initialization lands one centroid in each blob.
			assert.InDelta(t, 1.0, best, 1e-9)
		})
	}
}

func TestQuality_SameSeedSameModel(t *testing.T) {
	rng := testutil.NewRNG(9)
	path := seedDataset(t, t.TempDir(), "items.csv", rng.GaussianVectors(200, 6))

	first := open(t, path, kmcluster.WithK(5), kmcluster.WithSeed(77))
	want := first.Centroids()
	wantClusters := clusters(first.Records())
	_ = first.Close()

	second := open(t, path, kmcluster.WithK(5), kmcluster.WithSeed(77), kmcluster.WithWorkers(1))
	assert.Equal(t, want, second.Centroids())
	assert.Equal(t, wantClusters, clusters(second.Records()))
}
