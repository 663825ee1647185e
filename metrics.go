package kmcluster

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after the dataset is read at Open.
	// records is the number of records loaded, err is nil if successful.
	RecordLoad(records int, duration time.Duration, err error)

	// RecordTrain is called after each training run.
	// degenerate counts clusters that ended a pass with no members.
	RecordTrain(records, k, degenerate int, duration time.Duration, err error)

	// RecordAssign is called after each online assignment.
	// cluster is dataset.Unassigned for placeholder insertions and failures.
	RecordAssign(cluster, matches int, duration time.Duration, err error)

	// RecordSave is called after each dataset write.
	RecordSave(records int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordTrain(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAssign(int, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordSave(int, time.Duration, error)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	RecordsLoaded    atomic.Int64
	TrainCount       atomic.Int64
	TrainErrors      atomic.Int64
	TrainTotalNanos  atomic.Int64
	DegenerateCount  atomic.Int64
	AssignCount      atomic.Int64
	AssignErrors     atomic.Int64
	AssignTotalNanos atomic.Int64
	PlaceholderCount atomic.Int64
	SaveCount        atomic.Int64
	SaveErrors       atomic.Int64
	SaveTotalNanos   atomic.Int64
	RecordsLastSaved atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.RecordsLoaded.Add(int64(records))
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_, _, degenerate int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	b.DegenerateCount.Add(int64(degenerate))
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordAssign implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAssign(cluster, _ int, duration time.Duration, err error) {
	b.AssignCount.Add(1)
	b.AssignTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.AssignErrors.Add(1)
	case cluster < 0:
		b.PlaceholderCount.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(records int, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.RecordsLastSaved.Store(int64(records))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		RecordsLoaded:    b.RecordsLoaded.Load(),
		TrainCount:       b.TrainCount.Load(),
		TrainErrors:      b.TrainErrors.Load(),
		TrainAvgNanos:    avg(b.TrainTotalNanos.Load(), b.TrainCount.Load()),
		DegenerateCount:  b.DegenerateCount.Load(),
		AssignCount:      b.AssignCount.Load(),
		AssignErrors:     b.AssignErrors.Load(),
		AssignAvgNanos:   avg(b.AssignTotalNanos.Load(), b.AssignCount.Load()),
		PlaceholderCount: b.PlaceholderCount.Load(),
		SaveCount:        b.SaveCount.Load(),
		SaveErrors:       b.SaveErrors.Load(),
		SaveAvgNanos:     avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		RecordsLastSaved: b.RecordsLastSaved.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount        int64
	LoadErrors       int64
	RecordsLoaded    int64
	TrainCount       int64
	TrainErrors      int64
	TrainAvgNanos    int64
	DegenerateCount  int64
	AssignCount      int64
	AssignErrors     int64
	AssignAvgNanos   int64
	PlaceholderCount int64
	SaveCount        int64
	SaveErrors       int64
	SaveAvgNanos     int64
	RecordsLastSaved int64
}
