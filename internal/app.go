// Package internal provides the App struct that wires the CourtListener
// client, metrics, and the monitoring pipeline together and initializes the
// CLI layer.
package internal

import (
	"fmt"
	"os"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/cli"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/config"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/courtlistener"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/metrics"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// App holds all service dependencies for the courtlistener-mcp process.
type App struct {
	Config *models.Config

	Client   courtlistener.Client
	Metrics  *metrics.Collector
	EventLog monitoring.EventLog
	Notifier monitoring.Notifier
	Monitor  *monitoring.Monitor
}

// NewApp loads configuration from basePath and wires all components. The
// monitor is constructed but not started; the serve command owns its
// lifecycle.
func NewApp(basePath string) (*App, error) {
	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	app := &App{Config: cfg}

	if token := os.Getenv("COURTLISTENER_API_TOKEN"); token != "" {
		cfg.CourtListener.APIToken = token
	}
	app.Client = courtlistener.NewClient(cfg.CourtListener)

	app.Metrics = metrics.NewCollector()

	if cfg.Monitoring.EventLogPath != "" {
		app.EventLog, err = monitoring.NewJSONLEventLog(cfg.Monitoring.EventLogPath)
		if err != nil {
			// Non-fatal: run without an event log if it can't be created.
			app.EventLog = nil
		}
	}

	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = monitoring.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	app.Monitor = monitoring.NewMonitor(cfg.Monitoring, app.Metrics, app.EventLog, app.Notifier)

	// --- Wire CLI package-level variables ---
	cli.Client = app.Client
	cli.Metrics = app.Metrics
	cli.Monitor = app.Monitor
	cli.EventLog = app.EventLog

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. Safe to call when EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory to read .courtlistener.yaml from.
// It checks the COURTLISTENER_HOME env var, then falls back to the current
// directory.
func ResolveBasePath() string {
	if home := os.Getenv("COURTLISTENER_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
