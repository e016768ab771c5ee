package monitoring

import (
	"testing"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

type fakeNotifier struct {
	batches [][]Alert
}

func (f *fakeNotifier) Notify(alerts []Alert) error {
	f.batches = append(f.batches, alerts)
	return nil
}

func testMonitoringConfig() models.MonitoringConfig {
	return models.MonitoringConfig{
		Interval:         time.Hour, // cycles are driven manually in tests
		MaxTraces:        100,
		TraceRetention:   time.Hour,
		AlertHistorySize: 100,
		Thresholds:       DefaultThresholds(),
	}
}

func TestRunCycleFeedsAlertManager(t *testing.T) {
	// A failing grade makes the metrics health check fail, which the cycle
	// must convert into an active health_metrics alert.
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "F", SuccessRate: 0.1}}
	m := NewMonitor(testMonitoringConfig(), source, nil, nil)

	m.RunCycle()

	active := m.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert, got %d", len(active))
	}
	if active[0].ID != "health_metrics" {
		t.Errorf("expected health_metrics alert, got %s", active[0].ID)
	}

	stats := m.Stats()
	if stats.ChecksPerformed != 1 {
		t.Errorf("expected 1 check performed, got %d", stats.ChecksPerformed)
	}
	if stats.AlertsTriggered != 1 {
		t.Errorf("expected 1 alert triggered, got %d", stats.AlertsTriggered)
	}
}

func TestRunCycleRepeatEscalatesInPlace(t *testing.T) {
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "F", SuccessRate: 0.1}}
	m := NewMonitor(testMonitoringConfig(), source, nil, nil)

	m.RunCycle()
	m.RunCycle()
	m.RunCycle()

	active := m.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert after repeat cycles, got %d", len(active))
	}
	if active[0].Count != 3 {
		t.Errorf("expected count 3, got %d", active[0].Count)
	}
	if got := m.Stats().AlertsTriggered; got != 1 {
		t.Errorf("expected 1 lifetime trigger, got %d", got)
	}
}

func TestRunCycleNotifiesFirstTriggersOnly(t *testing.T) {
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "F", SuccessRate: 0.1}}
	notifier := &fakeNotifier{}
	m := NewMonitor(testMonitoringConfig(), source, nil, notifier)

	m.RunCycle()
	m.RunCycle()

	if len(notifier.batches) != 1 {
		t.Fatalf("expected 1 notification batch, got %d", len(notifier.batches))
	}
	if len(notifier.batches[0]) != 1 || notifier.batches[0][0].ID != "health_metrics" {
		t.Errorf("expected health_metrics in first batch, got %v", notifier.batches[0])
	}
}

func TestRunCycleDrainsPendingWithoutNotifier(t *testing.T) {
	source := &fakeMetricsSource{}
	m := NewMonitor(testMonitoringConfig(), source, nil, nil)

	// Alternate failing and passing grades so the health_metrics alert is
	// re-activated on every other cycle. Each activation appends to the
	// pending list; without a notifier the cycle must still drain it.
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			source.summary = models.PerformanceSummary{Grade: "F", SuccessRate: 0.1}
		} else {
			source.summary = models.PerformanceSummary{Grade: "A", SuccessRate: 1}
		}
		m.RunCycle()
	}

	if got := m.Stats().AlertsTriggered; got != 25 {
		t.Errorf("expected 25 activations, got %d", got)
	}
	if fresh := m.alerts.DrainNewTriggers(); len(fresh) != 0 {
		t.Errorf("expected pending list drained each cycle, found %d undrained entries", len(fresh))
	}
}

func TestReportUsesCachedHealthAndFreshTraces(t *testing.T) {
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "A", SuccessRate: 1}}
	m := NewMonitor(testMonitoringConfig(), source, nil, nil)

	m.RunCycle()

	// Traces collected after the cycle must still appear in the report,
	// because trace analysis is recomputed on demand.
	m.CollectTrace(sampleTrace("search", 100*time.Millisecond, ""))

	report := m.Report()
	if report.Health.Status != StateHealthy {
		t.Errorf("expected cached healthy status, got %s", report.Health.Status)
	}
	if report.Traces.TotalTraces != 1 {
		t.Errorf("expected fresh trace analysis with 1 trace, got %d", report.Traces.TotalTraces)
	}
	if report.Performance.Grade != "A" {
		t.Errorf("expected grade A in report, got %s", report.Performance.Grade)
	}
	if report.Resources.Timestamp.IsZero() {
		t.Error("expected cached resource sample in report")
	}
}

func TestStatsCounters(t *testing.T) {
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "A", SuccessRate: 1}}
	m := NewMonitor(testMonitoringConfig(), source, nil, nil)

	m.CollectTrace(sampleTrace("search", time.Millisecond, ""))
	m.CollectTrace(sampleTrace("fetch", time.Millisecond, ""))
	m.RunCycle()
	m.RunCycle()

	stats := m.Stats()
	if stats.ChecksPerformed != 2 {
		t.Errorf("expected 2 checks performed, got %d", stats.ChecksPerformed)
	}
	if stats.TracesCollected != 2 {
		t.Errorf("expected 2 traces collected, got %d", stats.TracesCollected)
	}
	if stats.Uptime <= 0 {
		t.Error("expected positive uptime")
	}
}

func TestStartStop(t *testing.T) {
	cfg := testMonitoringConfig()
	cfg.Interval = 10 * time.Millisecond
	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "A", SuccessRate: 1}}
	m := NewMonitor(cfg, source, nil, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("starting monitor: %v", err)
	}
	if err := m.Start(); err == nil {
		t.Error("expected error starting an already-running monitor")
	}

	// Let a few cycles run.
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	checks := m.Stats().ChecksPerformed
	if checks == 0 {
		t.Fatal("expected at least one cycle to have run")
	}

	// No cycle begins after Stop returns.
	time.Sleep(30 * time.Millisecond)
	if got := m.Stats().ChecksPerformed; got != checks {
		t.Errorf("expected no cycles after stop, counter went from %d to %d", checks, got)
	}

	// Stop is idempotent, and the monitor can be restarted.
	m.Stop()
	if err := m.Start(); err != nil {
		t.Fatalf("restarting monitor: %v", err)
	}
	m.Stop()
}

func TestDisabledSubsystemsProduceNeutralCycle(t *testing.T) {
	cfg := testMonitoringConfig()
	cfg.TracingDisabled = true
	cfg.ResourcesDisabled = true
	cfg.HealthDisabled = true
	cfg.AlertingDisabled = true

	source := &fakeMetricsSource{summary: models.PerformanceSummary{Grade: "F", SuccessRate: 0}}
	m := NewMonitor(cfg, source, nil, nil)

	m.CollectTrace(sampleTrace("search", time.Second, "boom"))
	m.RunCycle()

	stats := m.Stats()
	if stats.ChecksPerformed != 0 {
		t.Errorf("expected no checks with health disabled, got %d", stats.ChecksPerformed)
	}
	if stats.TracesCollected != 0 {
		t.Errorf("expected no traces with tracing disabled, got %d", stats.TracesCollected)
	}
	if stats.AlertsTriggered != 0 {
		t.Errorf("expected no alerts with alerting disabled, got %d", stats.AlertsTriggered)
	}
	if stats.LastResourceUsage.Memory.Used != 0 {
		t.Errorf("expected zeroed memory sample with resources disabled, got %d", stats.LastResourceUsage.Memory.Used)
	}
	if stats.LastResourceUsage.Uptime <= 0 {
		t.Error("expected real uptime even with resources disabled")
	}
}
