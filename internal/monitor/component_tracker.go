package monitor

import (
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/aleister1102/statuswatch/internal/statuspage"
)

const (
	unknownServiceName     = "Unknown Service"
	unknownComponentStatus = "unknown"
)

// ComponentTracker remembers the last non-operational status reported per
// component. Operational components are never present in the map, so a
// recovery clears the entry silently and the next degradation is reported again.
type ComponentTracker struct {
	states        map[string]string
	productPrefix string
	now           func() time.Time
}

// NewComponentTracker creates a tracker with no recorded states.
func NewComponentTracker(productPrefix string, now func() time.Time) *ComponentTracker {
	return &ComponentTracker{
		states:        make(map[string]string),
		productPrefix: productPrefix,
		now:           now,
	}
}

// Process returns records for status transitions, in API order.
func (t *ComponentTracker) Process(components []statuspage.Component) []models.NotificationRecord {
	var records []models.NotificationRecord

	for _, component := range components {
		status := valueOr(component.Status, unknownComponentStatus)

		if status == statuspage.ComponentStatusOperational {
			delete(t.states, component.ID)
			continue
		}

		if previous, ok := t.states[component.ID]; ok && previous == status {
			continue
		}

		t.states[component.ID] = status
		records = append(records, models.NotificationRecord{
			Timestamp: t.now(),
			Product:   productLabel(t.productPrefix, valueOr(component.Name, unknownServiceName)),
			Status:    titleCase(humanize(status)),
			Message:   models.TruncateMessage("Service status changed to: " + humanize(status)),
		})
	}

	return records
}

// LastReportedStatus returns the tracked abnormal status of a component.
func (t *ComponentTracker) LastReportedStatus(componentID string) (string, bool) {
	status, ok := t.states[componentID]
	return status, ok
}

// TrackedCount returns how many components are currently abnormal.
func (t *ComponentTracker) TrackedCount() int {
	return len(t.states)
}
