package kmcluster

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/tsechapman/kmcluster/blobstore"
	"github.com/tsechapman/kmcluster/internal/kmeans"
)

// DefaultPath is the dataset file used when no path or store is configured.
const DefaultPath = "test.csv"

// DefaultK is the cluster count used when WithK is not given.
const DefaultK = 1

// DefaultIterations is the number of training passes.
const DefaultIterations = kmeans.DefaultIterations

// EmptyClusterPolicy decides what training does with a cluster that loses all members.
type EmptyClusterPolicy = kmeans.EmptyPolicy

const (
	// EmptyClusterKeep leaves the centroid in place.
	EmptyClusterKeep = kmeans.EmptyKeep
	// EmptyClusterReseed moves the centroid onto a random record.
	EmptyClusterReseed = kmeans.EmptyReseed
	// EmptyClusterFail aborts training with a KindDegenerateCluster error.
	EmptyClusterFail = kmeans.EmptyFail
)

// ParseEmptyClusterPolicy maps "keep", "reseed" or "fail" to a policy.
func ParseEmptyClusterPolicy(s string) (EmptyClusterPolicy, error) {
	return kmeans.ParseEmptyPolicy(s)
}

// Locker guards the dataset against writers in other processes.
// Open takes the lock and Close releases it. Lock blocks until the lock is
// acquired or ctx is done.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// Refresher is implemented by Lockers whose hold expires, such as a lease.
// The Engine refreshes before every dataset write and abandons the write
// when the refresh fails.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context) error   { return nil }
func (noopLocker) Unlock(context.Context) error { return nil }

type options struct {
	path             string
	store            blobstore.Store
	name             string
	k                int
	iterations       int
	rng              *rand.Rand
	workers          int
	onEmpty          EmptyClusterPolicy
	metricsCollector MetricsCollector
	logger           *Logger
	locker           Locker
}

// Option configures Open.
type Option func(*options)

// WithPath stores the dataset in a local file. A sibling "<path>.lock" file
// is used for cross-process locking unless WithLocker overrides it.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithStore stores the dataset as object name in store. An empty name uses DefaultPath.
// No cross-process lock is taken unless WithLocker is also given.
func WithStore(store blobstore.Store, name string) Option {
	return func(o *options) {
		o.store = store
		o.name = name
	}
}

// WithK sets the number of clusters.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithIterations sets the number of training passes.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

// WithSeed makes centroid initialization reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the random source used for centroid initialization.
// The Engine uses it only while holding its lock.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithWorkers bounds the goroutines used for the assignment step of training.
// Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEmptyClusterPolicy selects how training handles clusters with no members.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(o *options) {
		o.onEmpty = p
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmcluster.BasicMetricsCollector{}
//	eng, _ := kmcluster.Open(ctx, kmcluster.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Assigns: %d, Avg latency: %dns\n", stats.AssignCount, stats.AssignAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithLocker sets the cross-process lock taken by Open.
func WithLocker(l Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		iterations:       DefaultIterations,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
