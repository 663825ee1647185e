// Package kmeans implements Lloyd's k-means over dataset records.
//
// Training runs a fixed number of passes with no convergence check.
// Every pass recomputes each record's nearest centroid from scratch and then
// moves each centroid to the mean of its members. Randomness comes only from
// the injected *rand.Rand, so a fixed seed reproduces a run exactly.
package kmeans
