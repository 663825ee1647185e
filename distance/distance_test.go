package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{0, 0}, []float64{3, 4}, 5},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Negative", []float64{-1, -1}, []float64{2, 3}, 5},
		{"Empty", []float64{}, []float64{}, 0},
		{"Single", []float64{2}, []float64{7}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Euclidean(tt.a, tt.b), 1e-12)
		})
	}
}

func TestEuclidean_Identity(t *testing.T) {
	vecs := [][]float64{
		{},
		{1},
		{0.25, -3.5, 1e6},
		{math.MaxFloat32, 0},
	}
	for _, v := range vecs {
		assert.Equal(t, 0.0, Euclidean(v, v))
	}
}

func TestEuclidean_Symmetric(t *testing.T) {
	pairs := [][2][]float64{
		{{0, 0}, {10, 10}},
		{{1.5, 2.5, 3.5}, {-1, 0, 7}},
		{{1e-9}, {-1e-9}},
	}
	for _, p := range pairs {
		assert.Equal(t, Euclidean(p[0], p[1]), Euclidean(p[1], p[0]))
	}
}

func TestEuclidean_MismatchSentinel(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 2, 3}

	assert.Equal(t, Mismatch, Euclidean(a, b))
	assert.Equal(t, Mismatch, Euclidean(b, a))
	assert.Equal(t, Mismatch, SquaredEuclidean(a, b))

	// The sentinel undercuts every real distance, which is why minimum
	// searches must not rely on it.
	assert.Less(t, Euclidean(a, b), Euclidean(a, a))
}

func TestChecked(t *testing.T) {
	d, err := Checked([]float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)

	_, err = Checked([]float64{1, 2}, []float64{1, 2, 3})
	require.Error(t, err)

	var dm *ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.Equal(t, "dimension mismatch: expected 2, got 3", err.Error())
}

func TestSquaredEuclidean(t *testing.T) {
	assert.InDelta(t, 25.0, SquaredEuclidean([]float64{0, 0}, []float64{3, 4}), 1e-12)
	assert.InDelta(t, 8.0, SquaredEuclidean([]float64{1, -1}, []float64{-1, 1}), 1e-12)
}

func TestProvider(t *testing.T) {
	fn, err := Provider(MetricEuclidean)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, fn([]float64{0, 0}, []float64{3, 4}), 1e-12)

	fn, err = Provider(MetricSquaredEuclidean)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, fn([]float64{0, 0}, []float64{3, 4}), 1e-12)

	_, err = Provider(Metric(999))
	assert.Error(t, err)
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "Euclidean", MetricEuclidean.String())
	assert.Equal(t, "SquaredEuclidean", MetricSquaredEuclidean.String())
	assert.Equal(t, "Unknown(42)", Metric(42).String())
}
