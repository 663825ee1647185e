package kmcluster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	boom := errors.New("boom")

	m.RecordLoad(10, time.Millisecond, nil)
	m.RecordTrain(10, 3, 2, 4*time.Millisecond, nil)
	m.RecordTrain(10, 3, 0, 2*time.Millisecond, boom)
	m.RecordAssign(1, 4, 10*time.Microsecond, nil)
	m.RecordAssign(-1, 0, 30*time.Microsecond, nil)
	m.RecordAssign(-1, 0, 20*time.Microsecond, boom)
	m.RecordSave(11, time.Millisecond, nil)
	m.RecordSave(12, time.Millisecond, boom)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(10), stats.RecordsLoaded)
	assert.Equal(t, int64(2), stats.TrainCount)
	assert.Equal(t, int64(1), stats.TrainErrors)
	assert.Equal(t, int64(3*time.Millisecond), stats.TrainAvgNanos)
	assert.Equal(t, int64(2), stats.DegenerateCount)
	assert.Equal(t, int64(3), stats.AssignCount)
	assert.Equal(t, int64(1), stats.AssignErrors)
	assert.Equal(t, int64(1), stats.PlaceholderCount)
	assert.Equal(t, int64(20*time.Microsecond), stats.AssignAvgNanos)
	assert.Equal(t, int64(2), stats.SaveCount)
	assert.Equal(t, int64(1), stats.SaveErrors)
	assert.Equal(t, int64(11), stats.RecordsLastSaved)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.TrainAvgNanos)
	assert.Zero(t, stats.SaveAvgNanos)

	var _ MetricsCollector = NoopMetricsCollector{}
	var _ MetricsCollector = (*BasicMetricsCollector)(nil)
}
