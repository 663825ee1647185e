// Package testutil provides testing utilities for kmcluster.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source and generators for labeled,
// well-separated point clouds.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(100, 2) // uniform [0, 1)
//
// # Clustered Data
//
//	points, labels := rng.Blobs([][]float64{{0, 0}, {10, 10}}, 50, 0.5)
//	records := testutil.Records("pt", points)
//
// # Clustering Quality
//
//	purity := testutil.Purity(labels, assigned)
package testutil
