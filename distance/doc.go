// Package distance provides the vector distance used by the clustering engine.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean (L2) distance (default)
//   - MetricSquaredEuclidean: Squared Euclidean distance
//
// # Dimension Mismatch
//
// Euclidean keeps the historical contract of returning Mismatch (-1) when the
// two vectors differ in length. Because -1 compares smaller than every real
// distance, callers that pick a minimum must use Checked instead:
//
//	d, err := distance.Checked(a, b)
//	var dm *distance.ErrDimensionMismatch
//	if errors.As(err, &dm) { ... }
package distance
