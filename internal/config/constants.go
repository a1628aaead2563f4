package config

const (
	// Status page defaults
	DefaultStatusPageID  = "kh3m0q7m9g8m"
	DefaultProductPrefix = "OpenAI API"
	DefaultUserAgent     = "statuswatch/1.0"

	// Monitor defaults
	DefaultNormalIntervalSeconds   = 60
	DefaultIncidentIntervalSeconds = 15
	DefaultRequestTimeoutSeconds   = 10

	// Notification defaults
	DefaultKafkaTopic   = "status-notifications"
	DefaultRedisChannel = "status-notifications"

	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "STATUSWATCH_CONFIG_PATH"

	maxConfigFileSize = 10 * 1024 * 1024
)
