package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/tsechapman/kmcluster/dataset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Source returns a fresh, unshared *rand.Rand derived from the initial seed.
func (r *RNG) Source() *rand.Rand {
	return rand.New(rand.NewSource(r.seed))
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// Blobs generates perCenter points around each center with Gaussian noise
// scaled by spread. Points are interleaved across centers; labels[i] is the
// index of the center point i was drawn around.
func (r *RNG) Blobs(centers [][]float64, perCenter int, spread float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	num := len(centers) * perCenter
	points := make([][]float64, 0, num)
	labels := make([]int, 0, num)

	for i := range num {
		c := i % len(centers)
		center := centers[c]
		vec := make([]float64, len(center))
		for j := range center {
			vec[j] = center[j] + r.rand.NormFloat64()*spread
		}
		points = append(points, vec)
		labels = append(labels, c)
	}

	return points, labels
}

// Records wraps vectors into unassigned records named prefix-0, prefix-1, ...
func Records(prefix string, vectors [][]float64) []dataset.Record {
	records := make([]dataset.Record, len(vectors))
	for i, v := range vectors {
		records[i] = dataset.NewRecord(fmt.Sprintf("%s-%d", prefix, i), v)
	}
	return records
}

// Pointers returns pointers into records, in order.
func Pointers(records []dataset.Record) []*dataset.Record {
	out := make([]*dataset.Record, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out
}

// Purity scores a clustering against ground truth labels: for every assigned
// cluster the most frequent true label is counted, and the sum is divided by
// the number of points. 1.0 means every cluster is label-homogeneous.
func Purity(truth, assigned []int) float64 {
	if len(truth) == 0 || len(truth) != len(assigned) {
		return 0
	}

	counts := make(map[int]map[int]int)
	for i, c := range assigned {
		if counts[c] == nil {
			counts[c] = make(map[int]int)
		}
		counts[c][truth[i]]++
	}

	total := 0
	for _, byLabel := range counts {
		best := 0
		for _, n := range byLabel {
			best = max(best, n)
		}
		total += best
	}

	return float64(total) / float64(len(truth))
}
