// Package view holds the viewer state machine: which map is shown, which
// component is highlighted and which statuses are current. All derived output
// (the tree, the path) is recomputed from State on demand.
package view

import (
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
)

// Screen is the viewer's current screen.
type Screen int

const (
	Idle Screen = iota
	Disambiguation
	Viewing
)

func (s Screen) String() string {
	switch s {
	case Disambiguation:
		return "disambiguation"
	case Viewing:
		return "viewing"
	default:
		return "idle"
	}
}

// MarshalText encodes the screen as its name.
func (s Screen) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is the whole viewer state. Treat it as a value: Reduce never mutates
// the state it is given.
type State struct {
	ActiveMap    *registry.NamedMap      `json:"active_map,omitempty"`
	Highlighted  hierarchy.ComponentID   `json:"highlighted,omitempty"`
	ExpandedPath []hierarchy.ComponentID `json:"expanded_path,omitempty"`
	Screen       Screen                  `json:"screen"`
	Matches      []registry.Match        `json:"matches,omitempty"`

	Statuses map[hierarchy.ComponentID]hierarchy.Status `json:"statuses,omitempty"`
	// StatusGeneration tags the status batch the state is waiting for. It
	// changes whenever the active map does.
	StatusGeneration uint64 `json:"status_generation"`
}

// Tree derives the rendered tree of the active map, or nil when no map is active.
func Tree(s State) *hierarchy.TreeNode {
	if s.ActiveMap == nil || s.ActiveMap.Components == nil {
		return nil
	}
	return hierarchy.Build(
		s.ActiveMap.Components,
		hierarchy.StatusLookup(s.Statuses),
		s.Highlighted,
		hierarchy.ExpandSet(s.ExpandedPath),
	)
}

// StatusRequest returns the generation and components a status fetch for the
// active map should use. ok is false when no map is active.
func StatusRequest(s State) (generation uint64, ids []hierarchy.ComponentID, ok bool) {
	if s.ActiveMap == nil || s.ActiveMap.Components == nil {
		return 0, nil, false
	}
	return s.StatusGeneration, s.ActiveMap.Components.AllComponents(), true
}

func (s State) clone() State {
	out := s
	if s.ExpandedPath != nil {
		out.ExpandedPath = append([]hierarchy.ComponentID(nil), s.ExpandedPath...)
	}
	if s.Matches != nil {
		out.Matches = append([]registry.Match(nil), s.Matches...)
	}
	if s.Statuses != nil {
		out.Statuses = make(map[hierarchy.ComponentID]hierarchy.Status, len(s.Statuses))
		for k, v := range s.Statuses {
			out.Statuses[k] = v
		}
	}
	return out
}
