package distance

import (
	"fmt"
	"math"
)

// Mismatch is returned by Euclidean when the vectors differ in length.
const Mismatch = -1.0

// ErrDimensionMismatch is returned by Checked when the vectors differ in length.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// SquaredEuclidean calculates the squared L2 distance between two vectors.
// Returns Mismatch if the vectors differ in length.
func SquaredEuclidean(a, b []float64) float64 {
	if len(a) != len(b) {
		return Mismatch
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean calculates the L2 distance between two vectors.
// Returns Mismatch if the vectors differ in length.
func Euclidean(a, b []float64) float64 {
	sq := SquaredEuclidean(a, b)
	if sq < 0 {
		return Mismatch
	}
	return math.Sqrt(sq)
}

// Checked is Euclidean with the mismatch surfaced as an error.
// a is treated as the reference vector for the reported dimensions.
func Checked(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return Euclidean(a, b), nil
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricSquaredEuclidean
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricSquaredEuclidean:
		return "SquaredEuclidean"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricSquaredEuclidean:
		return SquaredEuclidean, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
