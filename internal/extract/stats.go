package extract

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/pdfchunk/internal/doctree"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	kind       doctree.Kind
	ok         bool
}

// StatsSnapshot is a point-in-time aggregate of extraction samples.
type StatsSnapshot struct {
	Count         int            `json:"count"`
	Failed        int            `json:"failed"`
	ByGranularity map[string]int `json:"by_granularity"`
	MinMs         int64          `json:"min_ms"`
	MaxMs         int64          `json:"max_ms"`
	AvgMs         float64        `json:"avg_ms"`
	P50Ms         float64        `json:"p50_ms"`
	P95Ms         float64        `json:"p95_ms"`
	P99Ms         float64        `json:"p99_ms"`
}

// Stats tracks recent extraction latencies within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one extraction of kind that took durationMs.
func (s *Stats) Record(kind doctree.Kind, durationMs int64, ok bool) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
		kind:       kind,
		ok:         ok,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	byKind := make(map[string]int)
	if len(s.samples) == 0 {
		return StatsSnapshot{ByGranularity: byKind}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	failed := 0
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		byKind[string(sm.kind)]++
		if !sm.ok {
			failed++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return StatsSnapshot{
		Count:         len(values),
		Failed:        failed,
		ByGranularity: byKind,
		MinMs:         values[0],
		MaxMs:         values[len(values)-1],
		AvgMs:         float64(sum) / float64(len(values)),
		P50Ms:         percentile(values, 50),
		P95Ms:         percentile(values, 95),
		P99Ms:         percentile(values, 99),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	if lower == upper {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
