package monitoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

func newTestAlertManager(thresholds models.ThresholdConfig) *AlertManager {
	return NewAlertManager(thresholds, 100, false, nil)
}

// captureLog is an EventLog that keeps written events in memory.
type captureLog struct {
	events []Event
}

func (c *captureLog) Write(e Event) error               { c.events = append(c.events, e); return nil }
func (c *captureLog) Read(EventFilter) ([]Event, error) { return c.events, nil }
func (c *captureLog) Close() error                      { return nil }

func memoryUsage(fraction float64) ResourceUsage {
	return ResourceUsage{
		Timestamp: time.Now(),
		Memory: MemoryUsage{
			Used:         uint64(fraction * 1000),
			Total:        1000,
			UsagePercent: fraction,
		},
	}
}

func TestAlertIdempotence(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9})

	// The same condition holding across N evaluations yields one active
	// alert with count N, not N alerts.
	for i := 0; i < 5; i++ {
		am.ProcessResourceUsage(memoryUsage(0.85))
	}

	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert, got %d", len(active))
	}
	if active[0].ID != "resource_memory" {
		t.Errorf("expected id resource_memory, got %s", active[0].ID)
	}
	if active[0].Count != 5 {
		t.Errorf("expected count 5, got %d", active[0].Count)
	}
	if got := am.AlertsTriggered(); got != 1 {
		t.Errorf("expected lifetime triggered 1, got %d", got)
	}
	if got := len(am.AlertHistory()); got != 5 {
		t.Errorf("expected 5 history entries, got %d", got)
	}
}

func TestClearedEventDurationConsistent(t *testing.T) {
	log := &captureLog{}
	am := NewAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9}, 100, false, log)

	am.ProcessResourceUsage(memoryUsage(0.85))
	am.ProcessResourceUsage(memoryUsage(0.5))

	var cleared *Event
	for i := range log.events {
		if log.events[i].Type == EventAlertCleared {
			cleared = &log.events[i]
		}
	}
	if cleared == nil {
		t.Fatal("expected an alert.cleared event")
	}

	// The message and the active_for field describe the same duration.
	activeFor, err := time.ParseDuration(cleared.Data["active_for"].(string))
	if err != nil {
		t.Fatalf("parsing active_for: %v", err)
	}
	want := fmt.Sprintf("alert resource_memory cleared after %s", activeFor.Round(time.Second))
	if cleared.Message != want {
		t.Errorf("expected message %q, got %q", want, cleared.Message)
	}
}

func TestAlertClearing(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9})

	am.ProcessResourceUsage(memoryUsage(0.85))
	am.ProcessResourceUsage(memoryUsage(0.5))

	if got := len(am.ActiveAlerts()); got != 0 {
		t.Errorf("expected no active alerts after clear, got %d", got)
	}

	history := am.AlertHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry after clear, got %d", len(history))
	}
	if history[0].ID != "resource_memory" {
		t.Errorf("expected history entry resource_memory, got %s", history[0].ID)
	}
}

func TestAlertCountResetsAfterClear(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9})

	am.ProcessResourceUsage(memoryUsage(0.85))
	am.ProcessResourceUsage(memoryUsage(0.85))
	am.ProcessResourceUsage(memoryUsage(0.5))
	am.ProcessResourceUsage(memoryUsage(0.85))

	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert, got %d", len(active))
	}
	if active[0].Count != 1 {
		t.Errorf("expected count reset to 1 after clear and re-trigger, got %d", active[0].Count)
	}
	if got := am.AlertsTriggered(); got != 2 {
		t.Errorf("expected 2 lifetime triggers, got %d", got)
	}
}

func TestResourceSeverityEscalation(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9})

	am.ProcessResourceUsage(memoryUsage(0.5))
	if got := len(am.ActiveAlerts()); got != 0 {
		t.Fatalf("expected no alerts at 50%% usage, got %d", got)
	}

	am.ProcessResourceUsage(memoryUsage(0.9))
	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 alert at 90%% usage, got %d", len(active))
	}
	if active[0].Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", active[0].Severity)
	}

	// Above 95% the same alert escalates in place.
	am.ProcessResourceUsage(memoryUsage(0.96))
	active = am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected still 1 alert, got %d", len(active))
	}
	if active[0].ID != "resource_memory" {
		t.Errorf("expected same alert id, got %s", active[0].ID)
	}
	if active[0].Severity != SeverityCritical {
		t.Errorf("expected critical severity at 96%%, got %s", active[0].Severity)
	}
	if active[0].Count != 2 {
		t.Errorf("expected count 2, got %d", active[0].Count)
	}
}

func TestPerformanceSeverityEscalation(t *testing.T) {
	am := newTestAlertManager(DefaultThresholds())

	am.ProcessTraceAnalysis(TraceAnalysis{TotalTraces: 10, AverageResponseTime: 6000})
	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(active))
	}
	if active[0].ID != "performance_response_time" {
		t.Errorf("expected performance_response_time, got %s", active[0].ID)
	}
	if active[0].Severity != SeverityWarning {
		t.Errorf("expected warning below 2x threshold, got %s", active[0].Severity)
	}

	// Above 2x the threshold the severity escalates to critical.
	am.ProcessTraceAnalysis(TraceAnalysis{TotalTraces: 10, AverageResponseTime: 11000})
	active = am.ActiveAlerts()
	if active[0].Severity != SeverityCritical {
		t.Errorf("expected critical above 2x threshold, got %s", active[0].Severity)
	}
}

func TestErrorRateAlert(t *testing.T) {
	am := newTestAlertManager(DefaultThresholds())

	am.ProcessTraceAnalysis(TraceAnalysis{TotalTraces: 10, ErrorRate: 0.5})

	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(active))
	}
	if active[0].ID != "performance_error_rate" {
		t.Errorf("expected performance_error_rate, got %s", active[0].ID)
	}
	if active[0].Severity != SeverityCritical {
		t.Errorf("expected critical at 5x threshold, got %s", active[0].Severity)
	}
}

func TestProcessHealthCheckAlerts(t *testing.T) {
	am := newTestAlertManager(DefaultThresholds())

	now := time.Now()
	result := HealthResult{
		Status: StateWarning,
		Checks: map[string]HealthCheck{
			"metrics":     {Status: CheckFail, Message: "grade F", Timestamp: now},
			"resources":   {Status: CheckPass, Message: "ok", Timestamp: now},
			"performance": {Status: CheckPass, Message: "ok", Timestamp: now},
		},
		Timestamp: now,
	}
	am.ProcessHealthCheck(result)

	active := am.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(active))
	}
	if active[0].ID != "health_metrics" {
		t.Errorf("expected health_metrics, got %s", active[0].ID)
	}
	if active[0].Severity != SeverityWarning {
		t.Errorf("expected warning severity for warning status, got %s", active[0].Severity)
	}

	// Critical aggregate status escalates the per-check severity.
	result.Status = StateCritical
	result.Checks["resources"] = HealthCheck{Status: CheckFail, Message: "memory high", Timestamp: now}
	am.ProcessHealthCheck(result)

	active = am.ActiveAlerts()
	if len(active) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(active))
	}
	for _, a := range active {
		if a.Severity != SeverityCritical {
			t.Errorf("expected critical severity for %s, got %s", a.ID, a.Severity)
		}
	}

	// A passing check clears its alert.
	result.Status = StateWarning
	result.Checks["metrics"] = HealthCheck{Status: CheckPass, Message: "grade B", Timestamp: now}
	am.ProcessHealthCheck(result)

	active = am.ActiveAlerts()
	if len(active) != 1 || active[0].ID != "health_resources" {
		t.Errorf("expected only health_resources active, got %v", active)
	}
}

func TestAlertHistoryCap(t *testing.T) {
	am := NewAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9}, 3, false, nil)

	for i := 0; i < 10; i++ {
		am.ProcessResourceUsage(memoryUsage(0.85))
	}

	history := am.AlertHistory()
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	// Oldest entries are dropped first; the survivors carry the highest
	// counts.
	if history[len(history)-1].Count != 10 {
		t.Errorf("expected newest entry count 10, got %d", history[len(history)-1].Count)
	}
}

func TestAlertManagerDisabled(t *testing.T) {
	am := NewAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9}, 100, true, nil)

	am.ProcessResourceUsage(memoryUsage(0.99))
	am.ProcessTraceAnalysis(TraceAnalysis{TotalTraces: 10, AverageResponseTime: 99999, ErrorRate: 1})
	am.ProcessHealthCheck(HealthResult{
		Status: StateCritical,
		Checks: map[string]HealthCheck{"metrics": {Status: CheckFail}},
	})

	if got := len(am.ActiveAlerts()); got != 0 {
		t.Errorf("expected no alerts when disabled, got %d", got)
	}
	if got := am.AlertsTriggered(); got != 0 {
		t.Errorf("expected triggered counter unchanged when disabled, got %d", got)
	}
	if got := len(am.AlertHistory()); got != 0 {
		t.Errorf("expected empty history when disabled, got %d", got)
	}
}

func TestMalformedThresholdsNeverTrigger(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{})

	am.ProcessResourceUsage(memoryUsage(0.99))
	am.ProcessTraceAnalysis(TraceAnalysis{TotalTraces: 10, AverageResponseTime: 99999, ErrorRate: 1})

	if got := len(am.ActiveAlerts()); got != 0 {
		t.Errorf("expected zero thresholds to never trigger, got %d alerts", got)
	}
}

func TestDrainNewTriggers(t *testing.T) {
	am := newTestAlertManager(models.ThresholdConfig{MemoryUsage: 0.8, CPUUsage: 0.9})

	am.ProcessResourceUsage(memoryUsage(0.85))
	am.ProcessResourceUsage(memoryUsage(0.85))

	fresh := am.DrainNewTriggers()
	if len(fresh) != 1 {
		t.Fatalf("expected 1 new trigger, got %d", len(fresh))
	}
	if fresh[0].ID != "resource_memory" {
		t.Errorf("expected resource_memory, got %s", fresh[0].ID)
	}

	// Repeat triggers do not re-enter the pending list.
	am.ProcessResourceUsage(memoryUsage(0.85))
	if got := len(am.DrainNewTriggers()); got != 0 {
		t.Errorf("expected no new triggers after drain, got %d", got)
	}
}
