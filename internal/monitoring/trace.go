package monitoring

import (
	"sort"
	"sync"
	"time"
)

// Trace records one completed operation's duration and outcome. Traces are
// immutable after ingestion.
type Trace struct {
	ID        string         `json:"id"`
	Operation string         `json:"operation"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// OperationStats aggregates trace durations for one operation name.
type OperationStats struct {
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avg_duration_ms"`
}

// TraceAnalysis is a derived view over the current trace buffer. It is
// recomputed on demand and never stored.
type TraceAnalysis struct {
	TotalTraces         int                       `json:"total_traces"`
	AverageResponseTime float64                   `json:"average_response_time_ms"`
	ErrorRate           float64                   `json:"error_rate"`
	OperationBreakdown  map[string]OperationStats `json:"operation_breakdown"`
	SlowestOperations   []Trace                   `json:"slowest_operations"`
	RecentErrors        []Trace                   `json:"recent_errors"`
}

// topTraces bounds the slowest-operations and recent-errors views.
const topTraces = 10

// TraceCollector keeps a bounded, time-windowed buffer of traces in arrival
// order. Eviction by recency depends on that order, so derived views are
// always computed on copies.
type TraceCollector struct {
	mu        sync.Mutex
	disabled  bool
	maxTraces int
	retention time.Duration
	traces    []Trace
	collected int64
}

// NewTraceCollector creates a collector holding at most maxTraces entries,
// none older than the retention window.
func NewTraceCollector(maxTraces int, retention time.Duration, disabled bool) *TraceCollector {
	return &TraceCollector{
		disabled:  disabled,
		maxTraces: maxTraces,
		retention: retention,
	}
}

// CollectTrace appends a trace, then evicts entries older than the retention
// window and truncates to the most recent maxTraces entries. No-op when
// disabled.
func (tc *TraceCollector) CollectTrace(t Trace) {
	if tc.disabled {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.traces = append(tc.traces, t)
	tc.collected++

	cutoff := time.Now().Add(-tc.retention)
	kept := tc.traces[:0]
	for _, tr := range tc.traces {
		if !tr.Timestamp.Before(cutoff) {
			kept = append(kept, tr)
		}
	}
	tc.traces = kept

	if n := len(tc.traces); n > tc.maxTraces {
		tc.traces = append(tc.traces[:0], tc.traces[n-tc.maxTraces:]...)
	}
}

// AnalyzeTraces computes a fresh analysis over the current buffer. An empty
// buffer yields a zeroed analysis.
func (tc *TraceCollector) AnalyzeTraces() TraceAnalysis {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	analysis := TraceAnalysis{
		OperationBreakdown: make(map[string]OperationStats),
	}
	if len(tc.traces) == 0 {
		return analysis
	}

	analysis.TotalTraces = len(tc.traces)

	var totalMs float64
	errorCount := 0
	for _, t := range tc.traces {
		ms := float64(t.Duration) / float64(time.Millisecond)
		totalMs += ms
		if t.Error != "" {
			errorCount++
		}

		stats := analysis.OperationBreakdown[t.Operation]
		stats.Count++
		stats.AvgDuration += (ms - stats.AvgDuration) / float64(stats.Count)
		analysis.OperationBreakdown[t.Operation] = stats
	}
	analysis.AverageResponseTime = totalMs / float64(len(tc.traces))
	analysis.ErrorRate = float64(errorCount) / float64(len(tc.traces))

	// Sort a copy; the buffer itself must stay in arrival order.
	byDuration := make([]Trace, len(tc.traces))
	copy(byDuration, tc.traces)
	sort.SliceStable(byDuration, func(i, j int) bool {
		return byDuration[i].Duration > byDuration[j].Duration
	})
	if len(byDuration) > topTraces {
		byDuration = byDuration[:topTraces]
	}
	analysis.SlowestOperations = byDuration

	for i := len(tc.traces) - 1; i >= 0 && len(analysis.RecentErrors) < topTraces; i-- {
		if tc.traces[i].Error != "" {
			analysis.RecentErrors = append(analysis.RecentErrors, tc.traces[i])
		}
	}

	return analysis
}

// TracesCollected returns the lifetime ingestion count, independent of the
// current buffer length.
func (tc *TraceCollector) TracesCollected() int64 {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.collected
}

// Len returns the number of traces currently buffered.
func (tc *TraceCollector) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.traces)
}
