package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/statuswatch/internal/config"
	"github.com/aleister1102/statuswatch/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, flags, os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(ctx context.Context, flags AppFlags, stdout, stderr io.Writer) int {
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()

	gCfg, err := config.LoadGlobalConfig(flags.ConfigFile, bootLogger)
	if err != nil {
		bootLogger.Error().Err(err).Str("path", flags.ConfigFile).Msg("Could not load configuration")
		return 1
	}
	applyOverrides(gCfg, flags)

	if err := config.ValidateConfig(gCfg); err != nil {
		bootLogger.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}

	appLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		bootLogger.Error().Err(err).Msg("Could not initialize logger")
		return 1
	}
	defer appLogger.Close()
	zLogger := *appLogger.GetZerolog()

	app, err := NewApp(gCfg, stdout, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize monitor")
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		zLogger.Error().Err(err).Msg("[ERROR] Unexpected error")
		_, _ = fmt.Fprintf(stdout, "\n[ERROR] Unexpected error: %v\n", err)
		return 1
	}

	if ctx.Err() != nil {
		_, _ = fmt.Fprint(stdout, "\n\nMonitoring stopped by user\n")
	}
	return 0
}
