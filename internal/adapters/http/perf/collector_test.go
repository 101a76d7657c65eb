package perf

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_SnapshotGroupsByKind(t *testing.T) {
	c := NewCollector(16)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /events", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /events", StatusCode: 500, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT event", DurationMs: 4, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	assert.EqualValues(t, 3, snap.TotalRecorded)
	assert.Equal(t, 2, snap.Requests)
	assert.Equal(t, 1, snap.ServerErrors)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, 20.0, snap.SlowestPaths[0].AvgMs)
	assert.Equal(t, 30.0, snap.SlowestPaths[0].MaxMs)
	require.Len(t, snap.SlowestQueries, 1)
	assert.Equal(t, "SELECT event", snap.SlowestQueries[0].Path)
}

func TestCollector_RingKeepsNewest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}

	assert.EqualValues(t, 5, c.TotalRecorded())
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, 3, snap.SlowestPaths[0].Count)
	assert.Equal(t, 3.0, snap.SlowestPaths[0].AvgMs) // samples 2, 3, 4
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /campaigns", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	assert.InDelta(t, 50.5, snap.RequestP50Ms, 0.01)
	assert.InDelta(t, 95.05, snap.RequestP95Ms, 0.01)
	assert.InDelta(t, 99.01, snap.RequestP99Ms, 0.01)
}

func TestCollector_SinceFiltersOldSamples(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 100, Timestamp: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 10, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, "GET /new", snap.SlowestPaths[0].Path)
}

func TestCollector_TopNOrdering(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	for _, p := range []struct {
		path string
		ms   float64
	}{{"GET /a", 5}, {"GET /b", 50}, {"GET /c", 20}} {
		c.Record(Entry{Kind: KindRequest, Path: p.path, DurationMs: p.ms, Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 2)
	require.Len(t, snap.SlowestPaths, 2)
	assert.Equal(t, "GET /b", snap.SlowestPaths[0].Path)
	assert.Equal(t, "GET /c", snap.SlowestPaths[1].Path)
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(64)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 1, Timestamp: now})
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1000, c.TotalRecorded())
}

func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Path: "GET /", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}
