package models

import "time"

// CourtListenerConfig holds settings for the CourtListener REST API client.
type CourtListenerConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	APIToken string        `yaml:"api_token,omitempty" mapstructure:"api_token"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ThresholdConfig holds the alert evaluation thresholds.
// ResponseTime is in milliseconds; the remaining values are fractions in (0, 1].
type ThresholdConfig struct {
	ResponseTime float64 `yaml:"response_time_ms" mapstructure:"response_time_ms"`
	ErrorRate    float64 `yaml:"error_rate" mapstructure:"error_rate"`
	MemoryUsage  float64 `yaml:"memory_usage" mapstructure:"memory_usage"`
	CPUUsage     float64 `yaml:"cpu_usage" mapstructure:"cpu_usage"`
}

// MonitoringConfig holds settings for the embedded monitoring pipeline.
type MonitoringConfig struct {
	Interval         time.Duration   `yaml:"interval" mapstructure:"interval"`
	MaxTraces        int             `yaml:"max_traces" mapstructure:"max_traces"`
	TraceRetention   time.Duration   `yaml:"trace_retention" mapstructure:"trace_retention"`
	AlertHistorySize int             `yaml:"alert_history_size" mapstructure:"alert_history_size"`
	Thresholds       ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`
	EventLogPath     string          `yaml:"event_log_path,omitempty" mapstructure:"event_log_path"`

	// Per-subsystem kill switches. A disabled subsystem answers its primary
	// method with a zeroed/neutral result and mutates no state.
	TracingDisabled   bool `yaml:"tracing_disabled" mapstructure:"tracing_disabled"`
	ResourcesDisabled bool `yaml:"resources_disabled" mapstructure:"resources_disabled"`
	HealthDisabled    bool `yaml:"health_disabled" mapstructure:"health_disabled"`
	AlertingDisabled  bool `yaml:"alerting_disabled" mapstructure:"alerting_disabled"`
}

// SlackConfig holds Slack webhook settings for alert notifications.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
}

// NotificationConfig controls outbound alert notifications.
type NotificationConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Slack   SlackConfig `yaml:"slack,omitempty" mapstructure:"slack"`
}

// Config is the full configuration read from .courtlistener.yaml.
type Config struct {
	CourtListener CourtListenerConfig `yaml:"courtlistener" mapstructure:"courtlistener"`
	Monitoring    MonitoringConfig    `yaml:"monitoring" mapstructure:"monitoring"`
	Notifications NotificationConfig  `yaml:"notifications" mapstructure:"notifications"`
}
