// Package metrics tracks request counters per tool and derives the
// performance summary the health checks consume.
package metrics

import (
	"sync"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

type toolStats struct {
	requests int64
	failures int64
	avgMs    float64
}

// Collector accumulates request outcomes and derives metrics on demand.
type Collector struct {
	mu      sync.Mutex
	total   int64
	failed  int64
	avgMs   float64
	byTool  map[string]*toolStats
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	return &Collector{byTool: make(map[string]*toolStats)}
}

// RecordRequest records one completed request for the named tool.
func (c *Collector) RecordRequest(tool string, duration time.Duration, err error) {
	ms := float64(duration) / float64(time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.avgMs += (ms - c.avgMs) / float64(c.total)
	if err != nil {
		c.failed++
	}

	stats := c.byTool[tool]
	if stats == nil {
		stats = &toolStats{}
		c.byTool[tool] = stats
	}
	stats.requests++
	stats.avgMs += (ms - stats.avgMs) / float64(stats.requests)
	if err != nil {
		stats.failures++
	}
}

// Metrics returns a snapshot of all counters.
func (c *Collector) Metrics() models.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := models.Metrics{
		TotalRequests:      c.total,
		SuccessfulRequests: c.total - c.failed,
		FailedRequests:     c.failed,
		ByTool:             make(map[string]models.ToolMetrics, len(c.byTool)),
	}
	for tool, stats := range c.byTool {
		m.ByTool[tool] = models.ToolMetrics{
			Requests:        stats.requests,
			Failures:        stats.failures,
			AvgResponseTime: stats.avgMs,
		}
	}
	return m
}

// PerformanceSummary derives the success rate, average response time, and
// letter grade from the counters. With no traffic the summary reports a
// perfect record.
func (c *Collector) PerformanceSummary() models.PerformanceSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := models.PerformanceSummary{
		TotalRequests: c.total,
		SuccessRate:   1.0,
	}
	if c.total > 0 {
		summary.SuccessRate = float64(c.total-c.failed) / float64(c.total)
		summary.AverageResponseTime = c.avgMs
	}
	summary.Grade = grade(summary.SuccessRate, summary.AverageResponseTime)
	return summary
}

// grade scores the success rate out of 100, penalizes slow average response
// times, and maps the result onto a letter scale from A+ down to F.
func grade(successRate, avgResponseMs float64) string {
	score := successRate * 100
	switch {
	case avgResponseMs > 5000:
		score -= 30
	case avgResponseMs > 3000:
		score -= 20
	case avgResponseMs > 1000:
		score -= 10
	}

	switch {
	case score >= 97:
		return "A+"
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 73:
		return "C"
	case score >= 70:
		return "C-"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
