package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsechapman/kmcluster/dataset"
	"github.com/tsechapman/kmcluster/distance"
)

// DefaultIterations is the number of passes when Config.Iterations is zero.
const DefaultIterations = 100

// parallelThreshold is the record count below which assignment stays on one goroutine.
const parallelThreshold = 2048

var (
	// ErrInvalidK is returned when K is not positive.
	ErrInvalidK = errors.New("kmeans: k must be positive")
	// ErrInvalidIterations is returned when Iterations is negative.
	ErrInvalidIterations = errors.New("kmeans: iterations must not be negative")
	// ErrNoCentroids is returned by Nearest when there is nothing to compare against.
	ErrNoCentroids = errors.New("kmeans: no centroids")
	// ErrEmptyCluster is returned under EmptyFail when a cluster loses all members.
	ErrEmptyCluster = errors.New("kmeans: empty cluster")
)

// EmptyPolicy decides what happens to a centroid whose cluster has no members
// after an assignment pass.
type EmptyPolicy uint8

const (
	// EmptyKeep leaves the centroid where it is.
	EmptyKeep EmptyPolicy = iota
	// EmptyReseed moves the centroid onto a randomly chosen record.
	EmptyReseed
	// EmptyFail aborts training with ErrEmptyCluster.
	EmptyFail
)

func (p EmptyPolicy) String() string {
	switch p {
	case EmptyKeep:
		return "keep"
	case EmptyReseed:
		return "reseed"
	case EmptyFail:
		return "fail"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// ParseEmptyPolicy maps "keep", "reseed" or "fail" to an EmptyPolicy.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch s {
	case "", "keep":
		return EmptyKeep, nil
	case "reseed":
		return EmptyReseed, nil
	case "fail":
		return EmptyFail, nil
	default:
		return EmptyKeep, fmt.Errorf("kmeans: unknown empty-cluster policy %q", s)
	}
}

// Config controls a training run.
type Config struct {
	K          int
	Iterations int
	// Rand drives centroid sampling and reseeding. Nil uses a time-seeded source.
	Rand *rand.Rand
	// Workers bounds assignment parallelism. Zero means GOMAXPROCS.
	Workers int
	OnEmpty EmptyPolicy
}

// Result summarizes a training run.
type Result struct {
	// Centroids holds exactly K centroids, or none when no record had coordinates.
	Centroids [][]float64
	// Degenerate counts (pass, cluster) pairs that ended a pass with no members.
	Degenerate int
	// Skipped counts records with coordinates that matched no centroid's
	// dimensionality in the final pass.
	Skipped int
}

// Train clusters records in place: on return every record with coordinates
// whose dimensionality matches some centroid carries a cluster id in [0, K)
// and the distance to that centroid. Records without coordinates are left
// unassigned.
func Train(ctx context.Context, records []*dataset.Record, cfg Config) (Result, error) {
	if cfg.K <= 0 {
		return Result{}, ErrInvalidK
	}
	if cfg.Iterations < 0 {
		return Result{}, ErrInvalidIterations
	}
	iterations := cfg.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]*dataset.Record, 0, len(records))
	for _, r := range records {
		if r.Dim() == 0 {
			r.Cluster = dataset.Unassigned
			r.BestDistance = math.Inf(1)
			continue
		}
		points = append(points, r)
	}
	if len(points) == 0 {
		return Result{}, nil
	}

	centroids := make([][]float64, cfg.K)
	for i := range centroids {
		centroids[i] = append([]float64(nil), points[rng.Intn(len(points))].Coords...)
	}

	var res Result
	sums := make([][]float64, cfg.K)
	counts := make([]int, cfg.K)

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		skipped, err := assignAll(ctx, points, centroids, workers)
		if err != nil {
			return Result{}, err
		}
		res.Skipped = skipped

		for j := range centroids {
			sums[j] = resize(sums[j], len(centroids[j]))
			counts[j] = 0
		}
		for _, p := range points {
			if !p.Assigned() {
				continue
			}
			s := sums[p.Cluster]
			for d, v := range p.Coords {
				s[d] += v
			}
			counts[p.Cluster]++
		}

		for j := range centroids {
			if counts[j] == 0 {
				res.Degenerate++
				switch cfg.OnEmpty {
				case EmptyFail:
					return Result{}, fmt.Errorf("%w: cluster %d at iteration %d", ErrEmptyCluster, j, iter)
				case EmptyReseed:
					centroids[j] = append(centroids[j][:0], points[rng.Intn(len(points))].Coords...)
				}
				continue
			}
			inv := 1.0 / float64(counts[j])
			for d := range centroids[j] {
				centroids[j][d] = sums[j][d] * inv
			}
		}
	}

	res.Centroids = centroids
	return res, nil
}

// assignAll runs one assignment step and returns the number of records that
// matched no centroid.
func assignAll(ctx context.Context, points []*dataset.Record, centroids [][]float64, workers int) (int, error) {
	if len(points) < parallelThreshold || workers == 1 {
		return assignRange(points, centroids), nil
	}

	chunk := (len(points) + workers - 1) / workers
	skipped := make([]int, workers)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w*chunk < len(points); w++ {
		start := w * chunk
		end := min(start+chunk, len(points))
		g.Go(func() error {
			skipped[w] = assignRange(points[start:end], centroids)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, s := range skipped {
		total += s
	}
	return total, nil
}

func assignRange(points []*dataset.Record, centroids [][]float64) int {
	skipped := 0
	for _, p := range points {
		p.Cluster = dataset.Unassigned
		p.BestDistance = math.Inf(1)
		for j, c := range centroids {
			d, err := distance.Checked(c, p.Coords)
			if err != nil {
				continue
			}
			if d < p.BestDistance {
				p.BestDistance = d
				p.Cluster = j
			}
		}
		if !p.Assigned() {
			skipped++
		}
	}
	return skipped
}

// Nearest returns the index of the centroid closest to vec and its distance.
// Ties go to the lower index.
func Nearest(vec []float64, centroids [][]float64) (int, float64, error) {
	if len(centroids) == 0 {
		return dataset.Unassigned, 0, ErrNoCentroids
	}

	best := dataset.Unassigned
	bestDist := math.Inf(1)
	for j, c := range centroids {
		d, err := distance.Checked(c, vec)
		if err != nil {
			return dataset.Unassigned, 0, err
		}
		if best == dataset.Unassigned || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist, nil
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	clear(s)
	return s
}
