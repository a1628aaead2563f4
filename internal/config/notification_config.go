package config

// NotificationConfig selects the sinks records are delivered to.
// A sink with an empty address is disabled.
type NotificationConfig struct {
	ConsoleEnabled    bool   `json:"console_enabled" yaml:"console_enabled"`
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	JournalDBPath     string `json:"journal_db_path,omitempty" yaml:"journal_db_path,omitempty"`
	KafkaBrokers      string `json:"kafka_brokers,omitempty" yaml:"kafka_brokers,omitempty"` // comma separated
	KafkaTopic        string `json:"kafka_topic,omitempty" yaml:"kafka_topic,omitempty" validate:"required_with=KafkaBrokers"`
	RedisAddr         string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" validate:"omitempty,hostname_port"`
	RedisChannel      string `json:"redis_channel,omitempty" yaml:"redis_channel,omitempty" validate:"required_with=RedisAddr"`
}

// NewDefaultNotificationConfig prints to the console only
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		ConsoleEnabled: true,
		KafkaTopic:     DefaultKafkaTopic,
		RedisChannel:   DefaultRedisChannel,
	}
}
