// Package perf keeps a bounded in-memory history of request and query timings
// for the admin dashboard.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the number of timings retained when no size is given.
const DefaultRingSize = 4096

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing sample.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path" for requests, SQL operation for queries
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring of timing samples. Recording overwrites the
// oldest sample once the ring is full; all aggregation happens in Snapshot.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector creates a collector holding up to size samples.
// PRE: none (size <= 0 falls back to DefaultRingSize)
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores one sample.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns how many samples have ever been recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot is the dashboard view of recent timings.
type Snapshot struct {
	TotalRecorded  int64      `json:"totalRecorded"`
	Requests       int        `json:"requests"`
	ServerErrors   int        `json:"serverErrors"`
	RequestP50Ms   float64    `json:"requestP50Ms"`
	RequestP95Ms   float64    `json:"requestP95Ms"`
	RequestP99Ms   float64    `json:"requestP99Ms"`
	SlowestPaths   []PathStat `json:"slowestPaths"`
	SlowestQueries []PathStat `json:"slowestQueries"`
}

// PathStat aggregates the samples for one path or query operation.
type PathStat struct {
	Path    string  `json:"path"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"-"`
}

func (s *PathStat) add(ms float64) {
	s.Count++
	s.TotalMs += ms
	s.MaxMs = math.Max(s.MaxMs, ms)
}

// Snapshot aggregates samples recorded at or after since and returns the topN
// slowest request paths and query operations by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	samples := make([]Entry, len(c.ring))
	copy(samples, c.ring)
	c.mu.Unlock()

	snap := Snapshot{TotalRecorded: c.TotalRecorded()}
	var durations []float64
	paths := map[string]*PathStat{}
	queries := map[string]*PathStat{}

	for _, e := range samples {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		group := queries
		if e.Kind == KindRequest {
			group = paths
			durations = append(durations, e.DurationMs)
			snap.Requests++
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		}
		st, ok := group[e.Path]
		if !ok {
			st = &PathStat{Path: e.Path}
			group[e.Path] = st
		}
		st.add(e.DurationMs)
	}

	snap.SlowestPaths = slowest(paths, topN)
	snap.SlowestQueries = slowest(queries, topN)
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func slowest(stats map[string]*PathStat, n int) []PathStat {
	out := make([]PathStat, 0, len(stats))
	for _, st := range stats {
		st.AvgMs = st.TotalMs / float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMs == out[j].AvgMs {
			return out[i].Path < out[j].Path
		}
		return out[i].AvgMs > out[j].AvgMs
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
