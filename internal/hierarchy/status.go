package hierarchy

import "strings"

// Status is the health classification reported for a component.
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusIncident    Status = "incident"
	StatusMaintenance Status = "maintenance"
	StatusDown        Status = "down"
	StatusUnknown     Status = "unknown"
)

// Statuses lists the vocabulary in display order.
var Statuses = []Status{StatusHealthy, StatusIncident, StatusMaintenance, StatusDown, StatusUnknown}

// ParseStatus maps s onto the vocabulary. Anything unrecognised is unknown.
func ParseStatus(s string) Status {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusHealthy, StatusIncident, StatusMaintenance, StatusDown:
		return st
	default:
		return StatusUnknown
	}
}

// AtRisk reports whether the status belongs to the "at risk" category.
func (s Status) AtRisk() bool {
	return s == StatusIncident || s == StatusDown
}

// StatusFunc resolves the status of a component.
type StatusFunc func(ComponentID) Status

// StatusLookup returns a StatusFunc backed by m, defaulting to unknown.
func StatusLookup(m map[ComponentID]Status) StatusFunc {
	return func(id ComponentID) Status {
		if st, ok := m[id]; ok && st != "" {
			return st
		}
		return StatusUnknown
	}
}
