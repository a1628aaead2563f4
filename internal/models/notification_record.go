package models

import "time"

// MaxMessageLength is the hard cap, in characters, applied to record messages.
const MaxMessageLength = 200

// Notification sources
const (
	SourceIncident  = "incident"
	SourceComponent = "component"
)

// NotificationRecord is one reportable status change. Records are values and
// are never mutated after a tracker emits them.
type NotificationRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Product    string    `json:"product"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	IncidentID string    `json:"incident_id,omitempty"`
}

// Source reports whether the record came from an incident or a component.
func (r NotificationRecord) Source() string {
	if r.IncidentID != "" {
		return SourceIncident
	}
	return SourceComponent
}

// Key returns a stable routing key: the incident id, or the product otherwise.
func (r NotificationRecord) Key() string {
	if r.IncidentID != "" {
		return r.IncidentID
	}
	return r.Product
}

// TruncateMessage cuts s to at most MaxMessageLength characters.
// The cut is not word-aware.
func TruncateMessage(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxMessageLength {
		return s
	}
	return string(runes[:MaxMessageLength])
}
