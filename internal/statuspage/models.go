// Package statuspage fetches documents from an Atlassian Statuspage v2 API.
package statuspage

// Summary is the raw summary.json document. It is kept generic because it is
// only ever fingerprinted, never interpreted.
type Summary map[string]any

// IsEmpty reports whether the summary carries no data.
func (s Summary) IsEmpty() bool {
	return len(s) == 0
}

// Incident is an entry of incidents.json.
type Incident struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Status          string              `json:"status"`
	Impact          string              `json:"impact"`
	Shortlink       string              `json:"shortlink,omitempty"`
	IncidentUpdates []IncidentUpdate    `json:"incident_updates"`
	Components      []AffectedComponent `json:"components"`
}

// IncidentUpdate is one entry of an incident's update history, newest first.
type IncidentUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

// AffectedComponent is a component referenced by an incident.
type AffectedComponent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Component is an entry of components.json.
type Component struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Incident statuses that end an incident.
const (
	IncidentStatusResolved   = "resolved"
	IncidentStatusPostmortem = "postmortem"
)

// UnknownIncidentName stands in for an incident without a name.
const UnknownIncidentName = "Unknown Incident"

// ComponentStatusOperational is the only healthy component status.
const ComponentStatusOperational = "operational"

// DisplayName returns the incident name, or a placeholder when it is missing.
func (i Incident) DisplayName() string {
	if i.Name == "" {
		return UnknownIncidentName
	}
	return i.Name
}

// IsTerminal reports whether the incident no longer needs attention.
func (i Incident) IsTerminal() bool {
	return i.Status == IncidentStatusResolved || i.Status == IncidentStatusPostmortem
}

type incidentsDocument struct {
	Incidents []Incident `json:"incidents"`
}

type componentsDocument struct {
	Components []Component `json:"components"`
}
