package kmcluster

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/tsechapman/kmcluster/blobstore"
	"github.com/tsechapman/kmcluster/dataset"
	"github.com/tsechapman/kmcluster/internal/kmeans"
	"github.com/tsechapman/kmcluster/internal/lock"
	"github.com/tsechapman/kmcluster/internal/membership"
)

// Engine holds a dataset, its trained centroids and a membership index.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	opts    options
	store   *dataset.Store
	logger  *Logger
	metrics MetricsCollector
	locker  Locker

	records   []dataset.Record
	centroids [][]float64
	members   *membership.Index
	closed    bool
}

// Open loads the dataset, takes the writer lock and trains once.
// A missing dataset starts empty. A malformed one aborts with KindParse.
func Open(ctx context.Context, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	if o.k <= 0 {
		return nil, translateError("open", KindConfiguration, ErrInvalidK)
	}
	if o.iterations < 0 {
		return nil, translateError("open", KindConfiguration, ErrInvalidIterations)
	}

	store, locker := o.store, o.locker
	name := o.name
	if store == nil {
		path := o.path
		if path == "" {
			path = DefaultPath
		}
		store = blobstore.NewLocalStore(filepath.Dir(path))
		name = filepath.Base(path)
		if locker == nil {
			locker = lock.New(path + ".lock")
		}
	}
	if name == "" {
		name = DefaultPath
	}
	if locker == nil {
		locker = noopLocker{}
	}

	logger := o.logger.WithDataset(name).WithK(o.k)
	e := &Engine{
		opts:    o,
		store:   dataset.NewStore(store, name, dataset.WithStoreLogger(logger.Logger)),
		logger:  logger,
		metrics: o.metricsCollector,
		locker:  locker,
		members: membership.New(o.k),
	}

	if err := locker.Lock(ctx); err != nil {
		return nil, translateError("open", KindIO, err)
	}

	start := time.Now()
	records, err := e.store.Load(ctx)
	e.metrics.RecordLoad(len(records), time.Since(start), err)
	e.logger.LogLoad(ctx, len(records), time.Since(start), err)
	if err != nil {
		_ = locker.Unlock(ctx)
		return nil, translateError("open", KindIO, err)
	}
	e.records = records

	if err := e.train(ctx); err != nil {
		_ = locker.Unlock(ctx)
		return nil, err
	}
	return e, nil
}

// Train recomputes the centroids from every stored record. Online
// assignments never retrain on their own.
func (e *Engine) Train(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return translateError("train", KindConfiguration, ErrClosed)
	}
	return e.train(ctx)
}

// train must be called with e.mu held or before e is shared.
// The records are trained on a copy and swapped in only on success.
func (e *Engine) train(ctx context.Context) error {
	records := make([]dataset.Record, len(e.records))
	ptrs := make([]*dataset.Record, len(e.records))
	sampleable := 0
	for i := range e.records {
		records[i] = e.records[i].Clone()
		ptrs[i] = &records[i]
		if records[i].Dim() > 0 {
			sampleable++
		}
	}
	if sampleable > 0 && sampleable < e.opts.k {
		e.logger.WarnContext(ctx, "fewer records than clusters, some clusters will start on duplicate centroids",
			"records", sampleable,
		)
	}

	start := time.Now()
	res, err := kmeans.Train(ctx, ptrs, kmeans.Config{
		K:          e.opts.k,
		Iterations: e.opts.iterations,
		Rand:       e.opts.rng,
		Workers:    e.opts.workers,
		OnEmpty:    e.opts.onEmpty,
	})
	elapsed := time.Since(start)
	e.metrics.RecordTrain(len(records), e.opts.k, res.Degenerate, elapsed, err)
	e.logger.LogTrain(ctx, len(records), res.Degenerate, res.Skipped, elapsed, err)
	if err != nil {
		return translateError("train", KindConfiguration, err)
	}
	if res.Degenerate > 0 {
		e.logger.DebugContext(ctx, "empty clusters during training",
			"occurrences", res.Degenerate,
			"policy", e.opts.onEmpty.String(),
		)
	}

	e.records = records
	e.centroids = res.Centroids
	e.members = membership.Build(e.opts.k, records)
	return nil
}

// Assign classifies vector against the frozen centroids, stores it under id
// and returns the ids of the records already in the same cluster, in dataset
// order. The new record is not part of the result.
//
// An empty vector is stored as an unclustered placeholder and yields an empty
// result. NaN or infinite coordinates are rejected before anything is stored.
// If the dataset cannot be written the record is not kept. An id stored more
// than once in the cluster is reported once.
func (e *Engine) Assign(ctx context.Context, vector []float64, id string) ([]string, error) {
	start := time.Now()
	cluster, matches, err := e.assign(ctx, vector, id)
	e.metrics.RecordAssign(cluster, len(matches), time.Since(start), err)
	e.logger.LogAssign(ctx, id, cluster, len(matches), err)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (e *Engine) assign(ctx context.Context, vector []float64, id string) (int, []string, error) {
	if err := dataset.ValidateID(id); err != nil {
		return dataset.Unassigned, nil, translateError("assign", KindConfiguration, err)
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			err := fmt.Errorf("%w: index %d is %v", ErrNonFiniteCoordinate, i, v)
			return dataset.Unassigned, nil, translateError("assign", KindConfiguration, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return dataset.Unassigned, nil, translateError("assign", KindConfiguration, ErrClosed)
	}

	if len(vector) == 0 {
		if err := e.appendAndSave(ctx, dataset.NewRecord(id, nil)); err != nil {
			return dataset.Unassigned, nil, err
		}
		return dataset.Unassigned, []string{}, nil
	}

	if len(e.centroids) == 0 {
		return dataset.Unassigned, nil, translateError("assign", KindConfiguration, ErrNotTrained)
	}

	cluster, dist, err := kmeans.Nearest(vector, e.centroids)
	if err != nil {
		return dataset.Unassigned, nil, translateError("assign", KindDimensionMismatch, err)
	}

	matches := e.memberIDs(cluster)

	rec := dataset.NewRecord(id, vector)
	rec.Cluster = cluster
	rec.BestDistance = dist
	if err := e.appendAndSave(ctx, rec); err != nil {
		return dataset.Unassigned, nil, err
	}
	return cluster, matches, nil
}

// appendAndSave must be called with e.mu held.
func (e *Engine) appendAndSave(ctx context.Context, rec dataset.Record) error {
	row := uint32(len(e.records))
	e.records = append(e.records, rec)
	e.members.Add(row, rec.Cluster)

	if err := e.save(ctx); err != nil {
		e.members.Remove(row, rec.Cluster)
		e.records = e.records[:row]
		return err
	}
	return nil
}

// save must be called with e.mu held.
func (e *Engine) save(ctx context.Context) error {
	start := time.Now()
	if r, ok := e.locker.(Refresher); ok {
		if err := r.Refresh(ctx); err != nil {
			err = fmt.Errorf("refresh writer lock: %w", err)
			e.metrics.RecordSave(0, time.Since(start), err)
			e.logger.LogSave(ctx, 0, time.Since(start), err)
			return translateError("save", KindIO, err)
		}
	}
	n, err := e.store.Save(ctx, e.records)
	e.metrics.RecordSave(n, time.Since(start), err)
	e.logger.LogSave(ctx, n, time.Since(start), err)
	return translateError("save", KindIO, err)
}

// Compact drops in-memory records whose id repeats an earlier one, rewrites
// the dataset and returns the number of records removed.
func (e *Engine) Compact(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, translateError("compact", KindConfiguration, ErrClosed)
	}

	before := e.records
	unique := dataset.Dedupe(before)
	e.records = unique
	if err := e.save(ctx); err != nil {
		e.records = before
		return 0, err
	}
	e.members = membership.Build(e.opts.k, unique)
	return len(before) - len(unique), nil
}

// Records returns a copy of the dataset in insertion order.
func (e *Engine) Records() []dataset.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]dataset.Record, len(e.records))
	for i, r := range e.records {
		out[i] = r.Clone()
	}
	return out
}

// Centroids returns a copy of the trained centroids, or nil before any
// record with coordinates was trained on.
func (e *Engine) Centroids() [][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.centroids == nil {
		return nil
	}
	out := make([][]float64, len(e.centroids))
	for i, c := range e.centroids {
		out[i] = slices.Clone(c)
	}
	return out
}

// K returns the configured number of clusters.
func (e *Engine) K() int { return e.opts.k }

// Members returns the ids assigned to cluster, in dataset order.
func (e *Engine) Members(cluster int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.memberIDs(cluster)
}

// memberIDs lists the ids in cluster in dataset order, each once.
// It must be called with e.mu held.
func (e *Engine) memberIDs(cluster int) []string {
	ids := make([]string, 0, e.members.Count(cluster))
	seen := make(map[string]struct{}, e.members.Count(cluster))
	e.members.ForEach(cluster, func(row uint32) bool {
		id := e.records[row].ID
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// ClusterSizes returns the member count of every cluster.
func (e *Engine) ClusterSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := e.members.Counts()
	out := make([]int, len(counts))
	for i, c := range counts {
		out[i] = int(c)
	}
	return out
}

// Close releases the writer lock. Further calls are no-ops.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return translateError("close", KindIO, e.locker.Unlock(context.Background()))
}
