package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// CheckStatus is the outcome of a single health check.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckFail CheckStatus = "fail"
)

// HealthState is the aggregate health of the process.
type HealthState string

const (
	StateHealthy  HealthState = "healthy"
	StateWarning  HealthState = "warning"
	StateCritical HealthState = "critical"
)

// HealthCheck is the result of one named check.
type HealthCheck struct {
	Status    CheckStatus    `json:"status"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// HealthResult aggregates all checks from one run.
type HealthResult struct {
	Status    HealthState            `json:"status"`
	Checks    map[string]HealthCheck `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// MetricsSource is the read interface the pipeline consumes from the request
// metrics subsystem.
type MetricsSource interface {
	Metrics() models.Metrics
	PerformanceSummary() models.PerformanceSummary
}

// ResourceSampler supplies a fresh resource sample.
type ResourceSampler interface {
	ResourceUsage() ResourceUsage
}

// TraceAnalyzer supplies a fresh trace analysis.
type TraceAnalyzer interface {
	AnalyzeTraces() TraceAnalysis
}

// CheckContext supplies the collaborators a health check run reads from.
type CheckContext struct {
	Metrics   MetricsSource
	Resources ResourceSampler
	Traces    TraceAnalyzer
}

// Fixed thresholds for the performance health check. Distinct from the alert
// thresholds: health degrades earlier than alerts fire.
const (
	healthResponseTimeMs = 3000.0
	healthErrorRate      = 0.10
	healthResourceUsage  = 0.90
)

// gradeRank orders letter grades best to worst. Unknown grades rank below F.
var gradeRank = map[string]int{
	"A+": 0, "A": 1, "A-": 2,
	"B+": 3, "B": 4, "B-": 5,
	"C+": 6, "C": 7, "C-": 8,
	"D": 9, "F": 10,
}

// gradePasses reports whether a performance grade ranks C or better.
func gradePasses(grade string) bool {
	rank, ok := gradeRank[grade]
	return ok && rank <= gradeRank["C"]
}

// HealthCheckManager runs a fixed set of checks against the pipeline's
// collaborators and aggregates them into one tri-state status.
type HealthCheckManager struct {
	mu              sync.Mutex
	disabled        bool
	events          EventLog
	lastResult      HealthResult
	checksPerformed int64
}

// NewHealthCheckManager creates a health check manager. The event log may be
// nil.
func NewHealthCheckManager(disabled bool, events EventLog) *HealthCheckManager {
	return &HealthCheckManager{
		disabled: disabled,
		events:   events,
	}
}

// RunAllChecks runs every check and returns the aggregate result. When
// disabled it returns a healthy result with no checks and mutates nothing.
// A panic during the run surfaces as a critical result with a single failing
// "system" check; RunAllChecks itself never panics.
func (hm *HealthCheckManager) RunAllChecks(ctx CheckContext) HealthResult {
	if hm.disabled {
		return HealthResult{
			Status:    StateHealthy,
			Checks:    map[string]HealthCheck{},
			Timestamp: time.Now(),
		}
	}

	hm.mu.Lock()
	hm.checksPerformed++
	hm.mu.Unlock()

	result := hm.runChecks(ctx)

	hm.mu.Lock()
	hm.lastResult = result
	hm.mu.Unlock()

	return result
}

func (hm *HealthCheckManager) runChecks(ctx CheckContext) (result HealthResult) {
	defer func() {
		if r := recover(); r != nil {
			now := time.Now()
			logEvent(hm.events, LevelError, EventCheckFailed,
				fmt.Sprintf("health check run failed: %v", r), nil)
			result = HealthResult{
				Status: StateCritical,
				Checks: map[string]HealthCheck{
					"system": {
						Status:    CheckFail,
						Message:   fmt.Sprintf("health check run failed: %v", r),
						Timestamp: now,
					},
				},
				Timestamp: now,
			}
		}
	}()

	checks := map[string]HealthCheck{
		"metrics":     hm.checkMetrics(ctx.Metrics),
		"resources":   hm.checkResources(ctx.Resources),
		"performance": hm.checkPerformance(ctx.Traces),
	}

	failing := 0
	for _, check := range checks {
		if check.Status == CheckFail {
			failing++
		}
	}

	status := StateHealthy
	switch {
	case failing >= 2:
		status = StateCritical
	case failing == 1:
		status = StateWarning
	}

	return HealthResult{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

// checkMetrics passes when the performance grade ranks C or better.
func (hm *HealthCheckManager) checkMetrics(source MetricsSource) HealthCheck {
	summary := source.PerformanceSummary()
	check := HealthCheck{
		Status:    CheckPass,
		Message:   fmt.Sprintf("performance grade %s", summary.Grade),
		Timestamp: time.Now(),
		Data: map[string]any{
			"grade":                    summary.Grade,
			"success_rate":             summary.SuccessRate,
			"average_response_time_ms": summary.AverageResponseTime,
		},
	}
	if !gradePasses(summary.Grade) {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("performance grade %s is below C", summary.Grade)
	}
	return check
}

// checkResources passes when both memory and CPU usage are below 90%.
func (hm *HealthCheckManager) checkResources(sampler ResourceSampler) HealthCheck {
	usage := sampler.ResourceUsage()
	check := HealthCheck{
		Status:    CheckPass,
		Message:   fmt.Sprintf("memory %.1f%%, cpu %.1f%%", usage.Memory.UsagePercent*100, usage.CPU.UsagePercent*100),
		Timestamp: time.Now(),
		Data: map[string]any{
			"memory_usage": usage.Memory.UsagePercent,
			"cpu_usage":    usage.CPU.UsagePercent,
		},
	}
	if usage.Memory.UsagePercent >= healthResourceUsage || usage.CPU.UsagePercent >= healthResourceUsage {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("resource usage too high: memory %.1f%%, cpu %.1f%%",
			usage.Memory.UsagePercent*100, usage.CPU.UsagePercent*100)
	}
	return check
}

// checkPerformance passes when trace-derived average response time is below
// 3000 ms and the error rate below 10%.
func (hm *HealthCheckManager) checkPerformance(analyzer TraceAnalyzer) HealthCheck {
	analysis := analyzer.AnalyzeTraces()
	check := HealthCheck{
		Status:    CheckPass,
		Message:   fmt.Sprintf("avg response %.0f ms, error rate %.1f%%", analysis.AverageResponseTime, analysis.ErrorRate*100),
		Timestamp: time.Now(),
		Data: map[string]any{
			"average_response_time_ms": analysis.AverageResponseTime,
			"error_rate":               analysis.ErrorRate,
			"total_traces":             analysis.TotalTraces,
		},
	}
	if analysis.AverageResponseTime >= healthResponseTimeMs || analysis.ErrorRate >= healthErrorRate {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("degraded performance: avg response %.0f ms, error rate %.1f%%",
			analysis.AverageResponseTime, analysis.ErrorRate*100)
	}
	return check
}

// LastResult returns the result of the most recent run.
func (hm *HealthCheckManager) LastResult() HealthResult {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	return hm.lastResult
}

// ChecksPerformed returns the lifetime count of check runs.
func (hm *HealthCheckManager) ChecksPerformed() int64 {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	return hm.checksPerformed
}
