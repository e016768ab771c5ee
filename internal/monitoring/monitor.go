package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// Report is a point-in-time snapshot of the whole pipeline. Health and
// resources come from the last cached cycle results; trace analysis is
// recomputed fresh.
type Report struct {
	Timestamp    time.Time                 `json:"timestamp" yaml:"timestamp"`
	Metrics      models.Metrics            `json:"metrics" yaml:"metrics"`
	Performance  models.PerformanceSummary `json:"performance" yaml:"performance"`
	Health       HealthResult              `json:"health" yaml:"health"`
	Resources    ResourceUsage             `json:"resources" yaml:"resources"`
	Traces       TraceAnalysis             `json:"traces" yaml:"traces"`
	ActiveAlerts []Alert                   `json:"active_alerts" yaml:"active_alerts"`
}

// Stats holds the pipeline's lifetime counters.
type Stats struct {
	Uptime            time.Duration `json:"uptime" yaml:"uptime"`
	ChecksPerformed   int64         `json:"checks_performed" yaml:"checks_performed"`
	AlertsTriggered   int64         `json:"alerts_triggered" yaml:"alerts_triggered"`
	TracesCollected   int64         `json:"traces_collected" yaml:"traces_collected"`
	LastResourceUsage ResourceUsage `json:"last_resource_usage" yaml:"last_resource_usage"`
}

// Monitor orchestrates the pipeline: it owns the recurring cycle that runs
// health checks, samples resources, analyzes traces, and feeds each result
// to the alert manager.
//
// The cycle timer is self-rescheduling: the next tick is armed only after
// the current cycle returns, so cycles never overlap.
type Monitor struct {
	interval time.Duration

	traces    *TraceCollector
	resources *ResourceMonitor
	health    *HealthCheckManager
	alerts    *AlertManager
	metrics   MetricsSource
	events    EventLog
	notifier  Notifier

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewMonitor builds the pipeline from its configuration. The metrics source
// is required; events and notifier may be nil.
func NewMonitor(cfg models.MonitoringConfig, metrics MetricsSource, events EventLog, notifier Notifier) *Monitor {
	return &Monitor{
		interval:  cfg.Interval,
		traces:    NewTraceCollector(cfg.MaxTraces, cfg.TraceRetention, cfg.TracingDisabled),
		resources: NewResourceMonitor(cfg.ResourcesDisabled),
		health:    NewHealthCheckManager(cfg.HealthDisabled, events),
		alerts:    NewAlertManager(cfg.Thresholds, cfg.AlertHistorySize, cfg.AlertingDisabled, events),
		metrics:   metrics,
		events:    events,
		notifier:  notifier,
	}
}

// Start launches the cycle loop. It returns an error if the monitor is
// already running.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("monitor already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	logEvent(m.events, LevelInfo, EventMonitorStarted, "monitoring started",
		map[string]any{"interval": m.interval.String()})

	go m.run(ctx)
	return nil
}

// Stop halts the cycle loop and blocks until any in-flight cycle completes.
// No cycle begins after Stop returns. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done

	logEvent(m.events, LevelInfo, EventMonitorStopped, "monitoring stopped", nil)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if ctx.Err() != nil {
				return
			}
			m.RunCycle()
			timer.Reset(m.interval)
		}
	}
}

// RunCycle executes one monitoring cycle: health checks, resource sampling,
// and trace analysis, each fed to the alert manager, then notification
// fan-out for newly triggered alerts. A panic is recovered and logged; the
// schedule continues on the next tick.
func (m *Monitor) RunCycle() {
	defer func() {
		if r := recover(); r != nil {
			logEvent(m.events, LevelError, EventCycleError,
				fmt.Sprintf("monitoring cycle failed: %v", r), nil)
		}
	}()

	result := m.health.RunAllChecks(CheckContext{
		Metrics:   m.metrics,
		Resources: m.resources,
		Traces:    m.traces,
	})
	m.alerts.ProcessHealthCheck(result)

	usage := m.resources.ResourceUsage()
	m.alerts.ProcessResourceUsage(usage)

	analysis := m.traces.AnalyzeTraces()
	m.alerts.ProcessTraceAnalysis(analysis)

	// The pending first-trigger list is drained every cycle, notifier or
	// not, so it stays bounded by the alerts of a single cycle.
	fresh := m.alerts.DrainNewTriggers()
	if m.notifier != nil && len(fresh) > 0 {
		if err := m.notifier.Notify(fresh); err != nil {
			logEvent(m.events, LevelWarn, EventNotifyFailed, err.Error(), nil)
		}
	}
}

// CollectTrace ingests one completed operation's trace. This is the sole
// ingestion entry point, callable at any time.
func (m *Monitor) CollectTrace(t Trace) {
	m.traces.CollectTrace(t)
}

// Report assembles a snapshot from the last cached health and resource
// results and a freshly computed trace analysis.
func (m *Monitor) Report() Report {
	return Report{
		Timestamp:    time.Now(),
		Metrics:      m.metrics.Metrics(),
		Performance:  m.metrics.PerformanceSummary(),
		Health:       m.health.LastResult(),
		Resources:    m.resources.LastUsage(),
		Traces:       m.traces.AnalyzeTraces(),
		ActiveAlerts: m.alerts.ActiveAlerts(),
	}
}

// Stats reports uptime and the pipeline's lifetime counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		Uptime:            time.Since(m.resources.StartTime()),
		ChecksPerformed:   m.health.ChecksPerformed(),
		AlertsTriggered:   m.alerts.AlertsTriggered(),
		TracesCollected:   m.traces.TracesCollected(),
		LastResourceUsage: m.resources.LastUsage(),
	}
}

// ActiveAlerts returns the currently active alerts ordered by ID.
func (m *Monitor) ActiveAlerts() []Alert {
	return m.alerts.ActiveAlerts()
}

// AlertHistory returns the capped trigger-event history, oldest first.
func (m *Monitor) AlertHistory() []Alert {
	return m.alerts.AlertHistory()
}
