// Package config loads and validates the .courtlistener.yaml configuration
// file, falling back to defaults when absent.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// DefaultBaseURL is the CourtListener REST API root.
const DefaultBaseURL = "https://www.courtlistener.com/api/rest/v4"

// Default returns a Config populated with sensible defaults.
func Default() *models.Config {
	return &models.Config{
		CourtListener: models.CourtListenerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Monitoring: models.MonitoringConfig{
			Interval:         30 * time.Second,
			MaxTraces:        1000,
			TraceRetention:   time.Hour,
			AlertHistorySize: 100,
			Thresholds:       monitoring.DefaultThresholds(),
		},
	}
}

// Load reads .courtlistener.yaml from the given directory using Viper. If
// the file does not exist, defaults are returned. The loaded configuration
// is validated before being returned.
func Load(basePath string) (*models.Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(".courtlistener")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("courtlistener.base_url", cfg.CourtListener.BaseURL)
	v.SetDefault("courtlistener.timeout", cfg.CourtListener.Timeout)
	v.SetDefault("monitoring.interval", cfg.Monitoring.Interval)
	v.SetDefault("monitoring.max_traces", cfg.Monitoring.MaxTraces)
	v.SetDefault("monitoring.trace_retention", cfg.Monitoring.TraceRetention)
	v.SetDefault("monitoring.alert_history_size", cfg.Monitoring.AlertHistorySize)
	v.SetDefault("monitoring.thresholds.response_time_ms", cfg.Monitoring.Thresholds.ResponseTime)
	v.SetDefault("monitoring.thresholds.error_rate", cfg.Monitoring.Thresholds.ErrorRate)
	v.SetDefault("monitoring.thresholds.memory_usage", cfg.Monitoring.Thresholds.MemoryUsage)
	v.SetDefault("monitoring.thresholds.cpu_usage", cfg.Monitoring.Thresholds.CPUUsage)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found — return defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .courtlistener.yaml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values and returns one error
// listing every problem found.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.CourtListener.BaseURL == "" {
		errs = append(errs, "courtlistener.base_url must not be empty")
	}
	if cfg.CourtListener.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("courtlistener.timeout must be positive, got %s", cfg.CourtListener.Timeout))
	}

	if cfg.Monitoring.Interval <= 0 {
		errs = append(errs, fmt.Sprintf("monitoring.interval must be positive, got %s", cfg.Monitoring.Interval))
	}
	if cfg.Monitoring.MaxTraces <= 0 {
		errs = append(errs, fmt.Sprintf("monitoring.max_traces must be positive, got %d", cfg.Monitoring.MaxTraces))
	}
	if cfg.Monitoring.TraceRetention <= 0 {
		errs = append(errs, fmt.Sprintf("monitoring.trace_retention must be positive, got %s", cfg.Monitoring.TraceRetention))
	}
	if cfg.Monitoring.AlertHistorySize <= 0 {
		errs = append(errs, fmt.Sprintf("monitoring.alert_history_size must be positive, got %d", cfg.Monitoring.AlertHistorySize))
	}

	th := cfg.Monitoring.Thresholds
	if th.ResponseTime <= 0 {
		errs = append(errs, fmt.Sprintf("monitoring.thresholds.response_time_ms must be positive, got %g", th.ResponseTime))
	}
	if th.ErrorRate <= 0 || th.ErrorRate > 1 {
		errs = append(errs, fmt.Sprintf("monitoring.thresholds.error_rate must be in (0, 1], got %g", th.ErrorRate))
	}
	if th.MemoryUsage <= 0 || th.MemoryUsage > 1 {
		errs = append(errs, fmt.Sprintf("monitoring.thresholds.memory_usage must be in (0, 1], got %g", th.MemoryUsage))
	}
	if th.CPUUsage <= 0 || th.CPUUsage > 1 {
		errs = append(errs, fmt.Sprintf("monitoring.thresholds.cpu_usage must be in (0, 1], got %g", th.CPUUsage))
	}

	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.enabled requires notifications.slack.webhook_url")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
