package monitor

import (
	"strings"
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/aleister1102/statuswatch/internal/statuspage"
)

const (
	defaultIncidentStatus = "investigating"
	defaultIncidentImpact = "none"
	unknownComponentName  = "Unknown"
	multipleServices      = "Multiple Services"
	noDetailsMessage      = "No details available"
)

// IncidentTracker reports each incident exactly once for the life of the process.
// Later updates, escalations and resolutions of a reported incident are ignored.
type IncidentTracker struct {
	seen          map[string]struct{}
	productPrefix string
	now           func() time.Time
}

// NewIncidentTracker creates a tracker with an empty membership set.
func NewIncidentTracker(productPrefix string, now func() time.Time) *IncidentTracker {
	return &IncidentTracker{
		seen:          make(map[string]struct{}),
		productPrefix: productPrefix,
		now:           now,
	}
}

// Process returns records for incidents not seen before, in API order.
func (t *IncidentTracker) Process(incidents []statuspage.Incident) []models.NotificationRecord {
	var records []models.NotificationRecord

	for _, incident := range incidents {
		if _, ok := t.seen[incident.ID]; ok {
			continue
		}
		t.seen[incident.ID] = struct{}{}
		records = append(records, t.buildRecord(incident))
	}

	return records
}

// HasActiveIncident reports whether any incident is still open.
func (t *IncidentTracker) HasActiveIncident(incidents []statuspage.Incident) bool {
	return HasActiveIncident(incidents)
}

// Seen reports whether an incident id was already reported.
func (t *IncidentTracker) Seen(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// SeenCount returns the number of incidents reported so far.
func (t *IncidentTracker) SeenCount() int {
	return len(t.seen)
}

// HasActiveIncident reports whether any incident status is outside the
// terminal set {resolved, postmortem}.
func HasActiveIncident(incidents []statuspage.Incident) bool {
	for _, incident := range incidents {
		if !incident.IsTerminal() {
			return true
		}
	}
	return false
}

func (t *IncidentTracker) buildRecord(incident statuspage.Incident) models.NotificationRecord {
	status := valueOr(incident.Status, defaultIncidentStatus)
	impact := valueOr(incident.Impact, defaultIncidentImpact)

	message := noDetailsMessage
	if len(incident.IncidentUpdates) > 0 {
		message = valueOr(incident.IncidentUpdates[0].Body, noDetailsMessage)
	}

	return models.NotificationRecord{
		Timestamp:  t.now(),
		Product:    productLabel(t.productPrefix, affectedComponents(incident.Components)),
		Status:     titleCase(impact) + " - " + titleCase(humanize(status)),
		Message:    models.TruncateMessage(message),
		IncidentID: incident.ID,
	}
}

func affectedComponents(components []statuspage.AffectedComponent) string {
	if len(components) == 0 {
		return multipleServices
	}
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, valueOr(c.Name, unknownComponentName))
	}
	return strings.Join(names, ", ")
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
