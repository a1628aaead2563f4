package main

import (
	"context"
	"io"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/config"
	"github.com/aleister1102/statuswatch/internal/datastore"
	"github.com/aleister1102/statuswatch/internal/httpclient"
	"github.com/aleister1102/statuswatch/internal/monitor"
	"github.com/aleister1102/statuswatch/internal/notifier"
	"github.com/aleister1102/statuswatch/internal/statuspage"
	"github.com/rs/zerolog"
)

// App is the wired monitor: one status page client, one scheduler and the
// configured sinks.
type App struct {
	cfg       *config.GlobalConfig
	scheduler *monitor.Scheduler
	sinks     *notifier.MultiSink
	console   *notifier.ConsoleSink
	logger    zerolog.Logger
}

// applyOverrides copies command line values over the loaded configuration.
func applyOverrides(cfg *config.GlobalConfig, flags AppFlags) {
	if flags.DurationSeconds >= 0 {
		cfg.MonitorConfig.RunDurationSeconds = flags.DurationSeconds
	}
	if flags.LogLevel != "" {
		cfg.LogConfig.LogLevel = flags.LogLevel
	}
}

// NewApp builds every component from cfg. Console output goes to stdout.
func NewApp(cfg *config.GlobalConfig, stdout io.Writer, logger zerolog.Logger) (*App, error) {
	pageCfg := cfg.StatusPageConfig
	monitorCfg := cfg.MonitorConfig

	httpClient, err := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(monitorCfg.RequestTimeout()).
		WithUserAgent(pageCfg.UserAgent).
		WithHTTP2(pageCfg.EnableHTTP2).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP client")
	}

	source := statuspage.NewClient(httpClient, pageCfg.APIBaseURL(), monitorCfg.RequestTimeout(), logger)

	sinks, console, err := buildSinks(cfg, httpClient, stdout, logger)
	if err != nil {
		return nil, err
	}

	scheduler := monitor.NewScheduler(monitor.SchedulerOptions{
		NormalInterval:   monitorCfg.NormalInterval(),
		IncidentInterval: monitorCfg.IncidentInterval(),
		ProductPrefix:    pageCfg.ProductPrefix,
	}, source, sinks, logger)

	return &App{
		cfg:       cfg,
		scheduler: scheduler,
		sinks:     sinks,
		console:   console,
		logger:    logger.With().Str("component", "App").Logger(),
	}, nil
}

// buildSinks creates every enabled sink. Sinks already opened are closed
// again when a later one fails.
func buildSinks(cfg *config.GlobalConfig, httpClient *httpclient.HTTPClient, stdout io.Writer, logger zerolog.Logger) (*notifier.MultiSink, *notifier.ConsoleSink, error) {
	nc := cfg.NotificationConfig
	var (
		sinks   []notifier.NamedSink
		console *notifier.ConsoleSink
	)

	fail := func(err error, msg string) (*notifier.MultiSink, *notifier.ConsoleSink, error) {
		_ = notifier.NewMultiSink(sinks...).Close()
		return nil, nil, common.WrapError(err, msg)
	}

	if nc.ConsoleEnabled {
		console = notifier.NewConsoleSink(stdout)
		sinks = append(sinks, notifier.NamedSink{Name: "console", Sink: console})
	}

	if nc.DiscordWebhookURL != "" {
		discord, err := notifier.NewDiscordNotifier(nc.DiscordWebhookURL, cfg.StatusPageConfig.PageURL(), httpClient, logger)
		if err != nil {
			return fail(err, "failed to create discord sink")
		}
		sinks = append(sinks, notifier.NamedSink{Name: "discord", Sink: discord})
	}

	if nc.JournalDBPath != "" {
		journal, err := datastore.NewJournal(nc.JournalDBPath, logger)
		if err != nil {
			return fail(err, "failed to open notification journal")
		}
		sinks = append(sinks, notifier.NamedSink{Name: "journal", Sink: journal})
	}

	if nc.KafkaBrokers != "" {
		kafkaSink, err := notifier.NewKafkaSink(nc.KafkaBrokers, nc.KafkaTopic, logger)
		if err != nil {
			return fail(err, "failed to create kafka sink")
		}
		sinks = append(sinks, notifier.NamedSink{Name: "kafka", Sink: kafkaSink})
	}

	if nc.RedisAddr != "" {
		redisSink, err := notifier.NewRedisSink(nc.RedisAddr, nc.RedisChannel, logger)
		if err != nil {
			return fail(err, "failed to create redis sink")
		}
		sinks = append(sinks, notifier.NamedSink{Name: "redis", Sink: redisSink})
	}

	multi := notifier.NewMultiSink(sinks...)
	logger.Info().Strs("sinks", multi.Names()).Msg("Notification sinks configured")
	return multi, console, nil
}

// Run prints the banner and polls until ctx ends or the run duration passes.
func (a *App) Run(ctx context.Context) error {
	if a.console != nil {
		if err := a.console.PrintBanner(a.cfg.StatusPageConfig.PageURL(), a.cfg.MonitorConfig.NormalInterval(), a.cfg.MonitorConfig.IncidentInterval()); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to print banner")
		}
	}
	return a.scheduler.Run(ctx, a.cfg.MonitorConfig.RunDuration())
}

// Close releases sink resources.
func (a *App) Close() {
	if err := a.sinks.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Error closing notification sinks")
	}
}

// RunDuration is the configured run limit, zero for unbounded.
func (a *App) RunDuration() time.Duration {
	return a.cfg.MonitorConfig.RunDuration()
}
