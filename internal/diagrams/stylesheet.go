// Package diagrams turns a built component tree into shapes other renderers
// can draw: a flat node/edge list, Mermaid flowcharts and plain text trees.
package diagrams

import "github.com/ziadkadry99/riskmap/internal/hierarchy"

// NodeStyle describes how one node is drawn.
type NodeStyle struct {
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
	Text   string `json:"text"`
}

// Stylesheet holds node geometry and per-status colours.
type Stylesheet struct {
	Width     int                            `json:"width"`
	Height    int                            `json:"height"`
	Radius    int                            `json:"radius"`
	MaxLabel  int                            `json:"max_label"`
	Statuses  map[hierarchy.Status]NodeStyle `json:"statuses"`
	Highlight NodeStyle                      `json:"highlight"`
}

// DefaultStylesheet matches the colours used by the web front end.
var DefaultStylesheet = Stylesheet{
	Width:    120,
	Height:   40,
	Radius:   6,
	MaxLabel: 10,
	Statuses: map[hierarchy.Status]NodeStyle{
		hierarchy.StatusHealthy:     {Fill: "#2ecc71", Stroke: "#333333", Text: "#000000"},
		hierarchy.StatusMaintenance: {Fill: "#f1c40f", Stroke: "#333333", Text: "#000000"},
		hierarchy.StatusIncident:    {Fill: "#e67e22", Stroke: "#333333", Text: "#000000"},
		hierarchy.StatusDown:        {Fill: "#e74c3c", Stroke: "#333333", Text: "#ffffff"},
		hierarchy.StatusUnknown:     {Fill: "#cccccc", Stroke: "#333333", Text: "#000000"},
	},
	Highlight: NodeStyle{Stroke: "#00e5ff"},
}

// For returns the style of a status; anything missing uses the unknown style.
func (s Stylesheet) For(st hierarchy.Status) NodeStyle {
	if ns, ok := s.Statuses[st]; ok {
		return ns
	}
	return s.Statuses[hierarchy.StatusUnknown]
}

// Label shortens id to MaxLabel characters, marking the cut with an ellipsis.
func (s Stylesheet) Label(id hierarchy.ComponentID) string {
	r := []rune(string(id))
	if s.MaxLabel <= 0 || len(r) <= s.MaxLabel {
		return string(id)
	}
	return string(r[:s.MaxLabel]) + "…"
}
