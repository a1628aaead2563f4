package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/logger"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	StatusPageConfig   StatusPageConfig     `json:"status_page_config,omitempty" yaml:"status_page_config,omitempty"`
	MonitorConfig      MonitorConfig        `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	LogConfig          logger.FileLogConfig `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	NotificationConfig NotificationConfig   `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		StatusPageConfig:   NewDefaultStatusPageConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		LogConfig:          logger.NewDefaultFileLogConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// Fields absent from the file keep their defaults. YAML is used for .yaml and
// .yml files, JSON otherwise. With no file found the defaults are returned.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	data, err := readConfigFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	logger.Info().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

func readConfigFile(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, common.NewValidationError("config_file", filePath, "is a directory")
	}
	if info.Size() > maxConfigFileSize {
		return nil, common.NewValidationError("config_file", filePath, "file too large")
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
