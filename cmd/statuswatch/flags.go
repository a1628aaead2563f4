package main

import (
	"flag"
	"io"
)

// AppFlags holds command line overrides. A negative DurationSeconds means
// the flag was not given.
type AppFlags struct {
	ConfigFile      string
	DurationSeconds int
	LogLevel        string
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("statuswatch", flag.ContinueOnError)
	fs.SetOutput(output)

	configFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := fs.String("c", "", "Alias for -config")

	duration := fs.Int("duration", -1, "Run for this many seconds, then exit (overrides run_duration_seconds). 0 runs until interrupted.")
	durationAlias := fs.Int("d", -1, "Alias for -duration")

	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (overrides log_config.log_level)")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		ConfigFile:      *configFile,
		DurationSeconds: *duration,
		LogLevel:        *logLevel,
	}
	if flags.ConfigFile == "" {
		flags.ConfigFile = *configFileAlias
	}
	if flags.DurationSeconds < 0 {
		flags.DurationSeconds = *durationAlias
	}

	return flags, nil
}
