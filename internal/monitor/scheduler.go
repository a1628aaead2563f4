package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/aleister1102/statuswatch/internal/notifier"
	"github.com/aleister1102/statuswatch/internal/statuspage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnexpected marks faults that are not transport failures. They end the loop.
var ErrUnexpected = errors.New("unexpected monitor failure")

// Default cadences and product label.
const (
	DefaultNormalInterval   = 60 * time.Second
	DefaultIncidentInterval = 15 * time.Second
	DefaultProductPrefix    = "OpenAI API"
)

// Cadence is the poll rhythm of the scheduler.
type Cadence int

const (
	CadenceNormal Cadence = iota
	CadenceIncident
)

// String returns string representation.
func (c Cadence) String() string {
	switch c {
	case CadenceNormal:
		return "normal"
	case CadenceIncident:
		return "incident"
	default:
		return fmt.Sprintf("invalid(%d)", int(c))
	}
}

// StatusSource provides the three status page documents.
type StatusSource interface {
	Summary(ctx context.Context) (statuspage.Summary, error)
	Incidents(ctx context.Context) ([]statuspage.Incident, error)
	Components(ctx context.Context) ([]statuspage.Component, error)
}

// SchedulerOptions configures a Scheduler. Zero values fall back to defaults.
type SchedulerOptions struct {
	NormalInterval   time.Duration
	IncidentInterval time.Duration
	ProductPrefix    string
	Clock            Clock
}

// CycleStats counts what the scheduler has done so far.
type CycleStats struct {
	Cycles            int
	InspectedCycles   int
	TransportFailures int
	Notifications     int
	DeliveryFailures  int
}

// Scheduler drives the poll loop. It owns the detector and both trackers and
// touches them from a single goroutine only.
type Scheduler struct {
	source     StatusSource
	sink       notifier.Sink
	clock      Clock
	logger     zerolog.Logger
	detector   *ChangeDetector
	incidents  *IncidentTracker
	components *ComponentTracker

	normalInterval   time.Duration
	incidentInterval time.Duration
	activeIncident   bool
	stats            CycleStats
}

// NewScheduler creates a scheduler in the Normal cadence.
func NewScheduler(opts SchedulerOptions, source StatusSource, sink notifier.Sink, logger zerolog.Logger) *Scheduler {
	if opts.NormalInterval <= 0 {
		opts.NormalInterval = DefaultNormalInterval
	}
	if opts.IncidentInterval <= 0 {
		opts.IncidentInterval = DefaultIncidentInterval
	}
	if opts.ProductPrefix == "" {
		opts.ProductPrefix = DefaultProductPrefix
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}

	schedLogger := logger.With().Str("component", "Scheduler").Logger()

	return &Scheduler{
		source:           source,
		sink:             sink,
		clock:            opts.Clock,
		logger:           schedLogger,
		detector:         NewChangeDetector(logger),
		incidents:        NewIncidentTracker(opts.ProductPrefix, opts.Clock.Now),
		components:       NewComponentTracker(opts.ProductPrefix, opts.Clock.Now),
		normalInterval:   opts.NormalInterval,
		incidentInterval: opts.IncidentInterval,
	}
}

// Cadence returns the cadence selected by the last cycle.
func (s *Scheduler) Cadence() Cadence {
	if s.activeIncident {
		return CadenceIncident
	}
	return CadenceNormal
}

// Interval returns the wait before the next cycle.
func (s *Scheduler) Interval() time.Duration {
	if s.Cadence() == CadenceIncident {
		return s.incidentInterval
	}
	return s.normalInterval
}

// ActiveIncident reports the flag computed from the latest incident list.
func (s *Scheduler) ActiveIncident() bool {
	return s.activeIncident
}

// Stats returns a snapshot of the cycle counters.
func (s *Scheduler) Stats() CycleStats {
	return s.stats
}

// Run polls until ctx is cancelled or, when duration is positive, until that
// much time has passed. Cancellation is a normal exit and returns nil. Any
// ErrUnexpected fault is logged and returned.
func (s *Scheduler) Run(ctx context.Context, duration time.Duration) error {
	start := s.clock.Now()
	s.logger.Info().
		Dur("normal_interval", s.normalInterval).
		Dur("incident_interval", s.incidentInterval).
		Dur("duration", duration).
		Msg("Status monitor loop starting")

	for {
		if ctx.Err() != nil {
			s.logStopped("Monitoring stopped by user")
			return nil
		}

		if err := s.RunCycle(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Unexpected error, monitor loop terminating")
			return err
		}

		interval := s.Interval()

		if duration > 0 && s.clock.Now().Sub(start) >= duration {
			s.logStopped("Run duration elapsed")
			return nil
		}

		s.logger.Debug().Str("cadence", s.Cadence().String()).Dur("interval", interval).Msg("Waiting for next cycle")

		select {
		case <-ctx.Done():
			s.logStopped("Monitoring stopped by user")
			return nil
		case <-s.clock.After(interval):
		}
	}
}

// RunCycle performs one check cycle and hands its records to the sink.
// A panic inside the cycle is converted into an ErrUnexpected error.
func (s *Scheduler) RunCycle(ctx context.Context) (err error) {
	cycleLogger := s.logger.With().Str("cycle_id", uuid.NewString()).Logger()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic during check cycle: %v", ErrUnexpected, r)
		}
	}()

	records, err := s.checkForUpdates(ctx, cycleLogger)
	if err != nil {
		return err
	}

	s.deliver(ctx, cycleLogger, records)
	return nil
}

func (s *Scheduler) deliver(ctx context.Context, logger zerolog.Logger, records []models.NotificationRecord) {
	for _, record := range records {
		s.stats.Notifications++
		if err := s.sink.Deliver(ctx, record); err != nil {
			s.stats.DeliveryFailures++
			logger.Warn().Err(err).Str("product", record.Product).Str("status", record.Status).Msg("Failed to deliver notification")
		}
	}
}

func (s *Scheduler) logStopped(reason string) {
	s.logger.Info().
		Int("cycles", s.stats.Cycles).
		Int("inspected_cycles", s.stats.InspectedCycles).
		Int("transport_failures", s.stats.TransportFailures).
		Int("notifications", s.stats.Notifications).
		Int("delivery_failures", s.stats.DeliveryFailures).
		Msg(reason)
}
