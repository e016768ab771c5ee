package monitoring

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// AlertType classifies the signal an alert derives from.
type AlertType string

const (
	AlertTypeHealthCheck AlertType = "health_check"
	AlertTypeResource    AlertType = "resource"
	AlertTypePerformance AlertType = "performance"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a triggered alert condition. Identity is the ID string, which is
// deterministic per signal (e.g. "resource_memory", "health_metrics").
// Timestamp is the first-trigger time; Count increases while the condition
// persists between evaluations.
type Alert struct {
	ID        string         `json:"id"`
	Type      AlertType      `json:"type"`
	Severity  AlertSeverity  `json:"severity"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
	Count     int            `json:"count"`
	LastSeen  time.Time      `json:"last_seen"`
}

// DefaultThresholds is the canonical source of alert thresholds: response
// time in milliseconds, the rest as fractions.
func DefaultThresholds() models.ThresholdConfig {
	return models.ThresholdConfig{
		ResponseTime: 5000,
		ErrorRate:    0.10,
		MemoryUsage:  0.90,
		CPUUsage:     0.90,
	}
}

// criticalResourceUsage escalates a resource alert regardless of the
// configured trigger threshold.
const criticalResourceUsage = 0.95

// AlertManager evaluates health, resource, and trace signals against
// thresholds and maintains the alert lifecycle: trigger, escalate, clear,
// plus a capped history of every trigger event.
type AlertManager struct {
	mu          sync.Mutex
	disabled    bool
	thresholds  models.ThresholdConfig
	historySize int
	events      EventLog

	active    map[string]*Alert
	history   []Alert
	pending   []Alert
	triggered int64
}

// NewAlertManager creates an alert manager. Non-positive thresholds never
// trigger; the event log may be nil.
func NewAlertManager(thresholds models.ThresholdConfig, historySize int, disabled bool, events EventLog) *AlertManager {
	return &AlertManager{
		disabled:    disabled,
		thresholds:  thresholds,
		historySize: historySize,
		events:      events,
		active:      make(map[string]*Alert),
	}
}

// ProcessHealthCheck triggers or clears one alert per named check in the
// result. Severity is critical when the aggregate status is critical,
// warning otherwise. No-op when disabled.
func (am *AlertManager) ProcessHealthCheck(result HealthResult) {
	if am.disabled {
		return
	}

	severity := SeverityWarning
	if result.Status == StateCritical {
		severity = SeverityCritical
	}

	am.mu.Lock()
	defer am.mu.Unlock()

	for name, check := range result.Checks {
		id := "health_" + name
		if check.Status == CheckFail {
			am.trigger(Alert{
				ID:       id,
				Type:     AlertTypeHealthCheck,
				Severity: severity,
				Message:  check.Message,
				Data:     check.Data,
			})
		} else {
			am.clear(id)
		}
	}
}

// ProcessResourceUsage evaluates memory and CPU usage independently against
// their thresholds. Severity escalates to critical above 95% usage. No-op
// when disabled.
func (am *AlertManager) ProcessResourceUsage(usage ResourceUsage) {
	if am.disabled {
		return
	}

	am.mu.Lock()
	defer am.mu.Unlock()

	am.evaluateResource("resource_memory", "memory", usage.Memory.UsagePercent, am.thresholds.MemoryUsage)
	am.evaluateResource("resource_cpu", "cpu", usage.CPU.UsagePercent, am.thresholds.CPUUsage)
}

func (am *AlertManager) evaluateResource(id, name string, value, threshold float64) {
	if threshold <= 0 || value <= threshold {
		am.clear(id)
		return
	}

	severity := SeverityWarning
	if value > criticalResourceUsage {
		severity = SeverityCritical
	}
	am.trigger(Alert{
		ID:       id,
		Type:     AlertTypeResource,
		Severity: severity,
		Message:  fmt.Sprintf("%s usage %.1f%% exceeds threshold %.1f%%", name, value*100, threshold*100),
		Data:     map[string]any{"value": value, "threshold": threshold},
	})
}

// ProcessTraceAnalysis evaluates average response time and error rate against
// their thresholds. Severity escalates to critical above 2x the threshold.
// No-op when disabled.
func (am *AlertManager) ProcessTraceAnalysis(analysis TraceAnalysis) {
	if am.disabled {
		return
	}

	am.mu.Lock()
	defer am.mu.Unlock()

	am.evaluatePerformance("performance_response_time",
		fmt.Sprintf("average response time %.0f ms exceeds threshold %.0f ms",
			analysis.AverageResponseTime, am.thresholds.ResponseTime),
		analysis.AverageResponseTime, am.thresholds.ResponseTime)
	am.evaluatePerformance("performance_error_rate",
		fmt.Sprintf("error rate %.1f%% exceeds threshold %.1f%%",
			analysis.ErrorRate*100, am.thresholds.ErrorRate*100),
		analysis.ErrorRate, am.thresholds.ErrorRate)
}

func (am *AlertManager) evaluatePerformance(id, message string, value, threshold float64) {
	if threshold <= 0 || value <= threshold {
		am.clear(id)
		return
	}

	severity := SeverityWarning
	if value > 2*threshold {
		severity = SeverityCritical
	}
	am.trigger(Alert{
		ID:       id,
		Type:     AlertTypePerformance,
		Severity: severity,
		Message:  message,
		Data:     map[string]any{"value": value, "threshold": threshold},
	})
}

// trigger inserts a new active alert or escalates an existing one. A repeat
// trigger increments Count and refreshes severity, message, and LastSeen
// without re-logging or re-counting; every trigger event is appended to
// history. Callers hold the mutex.
func (am *AlertManager) trigger(a Alert) {
	now := time.Now()

	if existing, ok := am.active[a.ID]; ok {
		existing.Count++
		existing.LastSeen = now
		existing.Severity = a.Severity
		existing.Message = a.Message
		existing.Data = a.Data
		am.appendHistory(*existing)
		return
	}

	a.Count = 1
	a.Timestamp = now
	a.LastSeen = now
	am.active[a.ID] = &a
	am.triggered++
	am.pending = append(am.pending, a)
	logEvent(am.events, LevelWarn, EventAlertTriggered, a.Message, map[string]any{
		"alert_id": a.ID,
		"type":     string(a.Type),
		"severity": string(a.Severity),
	})
	am.appendHistory(a)
}

// clear removes an alert from the active set if present and logs how long
// the condition held. History is untouched. Callers hold the mutex.
func (am *AlertManager) clear(id string) {
	a, ok := am.active[id]
	if !ok {
		return
	}
	delete(am.active, id)
	activeFor := time.Since(a.Timestamp)
	logEvent(am.events, LevelInfo, EventAlertCleared,
		fmt.Sprintf("alert %s cleared after %s", id, activeFor.Round(time.Second)),
		map[string]any{"alert_id": id, "active_for": activeFor.String()})
}

// appendHistory records a trigger event, truncating to the configured cap,
// oldest first. Callers hold the mutex.
func (am *AlertManager) appendHistory(a Alert) {
	am.history = append(am.history, a)
	if am.historySize > 0 && len(am.history) > am.historySize {
		am.history = append(am.history[:0], am.history[len(am.history)-am.historySize:]...)
	}
}

// ActiveAlerts returns the active set as a slice ordered by ID.
func (am *AlertManager) ActiveAlerts() []Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	alerts := make([]Alert, 0, len(am.active))
	for _, a := range am.active {
		alerts = append(alerts, *a)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
	return alerts
}

// AlertHistory returns a copy of the trigger-event history, oldest first.
func (am *AlertManager) AlertHistory() []Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	history := make([]Alert, len(am.history))
	copy(history, am.history)
	return history
}

// AlertsTriggered returns the lifetime count of first-trigger events.
func (am *AlertManager) AlertsTriggered() int64 {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.triggered
}

// DrainNewTriggers returns the alerts first-triggered since the last drain
// and resets the pending list. Used to fan out notifications exactly once
// per alert activation.
func (am *AlertManager) DrainNewTriggers() []Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	fresh := am.pending
	am.pending = nil
	return fresh
}
