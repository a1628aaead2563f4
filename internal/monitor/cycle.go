package monitor

import (
	"context"
	"fmt"

	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/rs/zerolog"
)

// checkForUpdates runs one check cycle. Transport failures are logged and
// treated as "no data" for the affected endpoint. Only unexpected faults are
// returned as errors.
func (s *Scheduler) checkForUpdates(ctx context.Context, logger zerolog.Logger) ([]models.NotificationRecord, error) {
	s.stats.Cycles++

	summary, err := s.source.Summary(ctx)
	if err != nil {
		s.transportFailure(ctx, logger, "summary", err)
		return nil, nil
	}

	inspect, err := s.detector.ShouldInspect(summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if !inspect {
		logger.Debug().Msg("No changes detected, skipping detailed checks")
		return nil, nil
	}
	s.stats.InspectedCycles++
	logger.Info().Str("fingerprint", s.detector.Current()).Msg("Summary changed, fetching details")

	var incidentRecords, componentRecords []models.NotificationRecord

	incidents, err := s.source.Incidents(ctx)
	if err != nil {
		s.transportFailure(ctx, logger, "incidents", err)
	} else {
		s.activeIncident = s.incidents.HasActiveIncident(incidents)
		incidentRecords = s.incidents.Process(incidents)
		for _, incident := range incidents {
			if !incident.IsTerminal() {
				logger.Debug().Str("incident_id", incident.ID).Str("name", incident.DisplayName()).Str("status", incident.Status).Msg("Active incident")
			}
		}
		logger.Debug().
			Int("incidents", len(incidents)).
			Int("new_incidents", len(incidentRecords)).
			Bool("active_incident", s.activeIncident).
			Msg("Processed incidents")
	}

	components, err := s.source.Components(ctx)
	if err != nil {
		s.transportFailure(ctx, logger, "components", err)
	} else {
		componentRecords = s.components.Process(components)
		logger.Debug().
			Int("components", len(components)).
			Int("changed_components", len(componentRecords)).
			Int("abnormal_components", s.components.TrackedCount()).
			Msg("Processed components")
	}

	records := make([]models.NotificationRecord, 0, len(incidentRecords)+len(componentRecords))
	records = append(records, incidentRecords...)
	records = append(records, componentRecords...)
	return records, nil
}

func (s *Scheduler) transportFailure(ctx context.Context, logger zerolog.Logger, document string, err error) {
	s.stats.TransportFailures++
	if ctx.Err() != nil {
		logger.Debug().Err(err).Str("document", document).Msg("Fetch interrupted by shutdown")
		return
	}
	logger.Warn().Err(err).Str("document", document).Msg("API request failed, no data this cycle")
}
