package config

import (
	"time"
)

// MonitorConfig defines the polling cadence
type MonitorConfig struct {
	NormalIntervalSeconds   int `json:"normal_interval_seconds,omitempty" yaml:"normal_interval_seconds,omitempty" validate:"min=1"`
	IncidentIntervalSeconds int `json:"incident_interval_seconds,omitempty" yaml:"incident_interval_seconds,omitempty" validate:"min=1"`
	RequestTimeoutSeconds   int `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty" validate:"min=1"`
	RunDurationSeconds      int `json:"run_duration_seconds,omitempty" yaml:"run_duration_seconds,omitempty" validate:"min=0"` // 0 runs until cancelled
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		NormalIntervalSeconds:   DefaultNormalIntervalSeconds,
		IncidentIntervalSeconds: DefaultIncidentIntervalSeconds,
		RequestTimeoutSeconds:   DefaultRequestTimeoutSeconds,
	}
}

func (c MonitorConfig) NormalInterval() time.Duration {
	return time.Duration(c.NormalIntervalSeconds) * time.Second
}

func (c MonitorConfig) IncidentInterval() time.Duration {
	return time.Duration(c.IncidentIntervalSeconds) * time.Second
}

func (c MonitorConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c MonitorConfig) RunDuration() time.Duration {
	return time.Duration(c.RunDurationSeconds) * time.Second
}
