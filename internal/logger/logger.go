package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
	closer  io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// GetConfig returns the effective configuration
func (l *Logger) GetConfig() LoggerConfig {
	return l.config
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New creates a logger from file-level settings
func New(cfg FileLogConfig) (*Logger, error) {
	return NewLoggerBuilder().WithFileConfig(cfg).Build()
}
