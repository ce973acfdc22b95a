package view

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
)

var (
	// ErrComponentNotFound means a search matched no map. The state is unchanged.
	ErrComponentNotFound = errors.New("component not found")
	ErrEmptyTerm         = errors.New("empty search term")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownMap        = errors.New("unknown map")
	ErrNoActiveMap       = errors.New("no active map")
)

// Event is an input to the reducer.
type Event interface{ event() }

// Search looks a component up across all maps.
type Search struct{ Term string }

// ChooseMap picks one of the maps offered on the disambiguation screen.
type ChooseMap struct{ Name string }

// Reset drops the highlight and the forced expansion.
type Reset struct{}

// StatusRefresh delivers a completed status batch.
type StatusRefresh struct {
	Generation uint64
	Statuses   map[hierarchy.ComponentID]hierarchy.Status
}

func (Search) event()        {}
func (ChooseMap) event()     {}
func (Reset) event()         {}
func (StatusRefresh) event() {}

// Catalog is the part of a registry the reducer needs.
type Catalog interface {
	Find(term string) []registry.Match
	Get(name string) (*registry.NamedMap, bool)
}

// Reducer applies events to a State.
type Reducer struct {
	Registry Catalog
}

// Reduce returns the state after ev. When an event's precondition does not
// hold the input state is returned along with an error.
func (r Reducer) Reduce(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Search:
		return r.search(s, ev)
	case ChooseMap:
		return r.chooseMap(s, ev)
	case Reset:
		if s.ActiveMap == nil {
			return s, ErrNoActiveMap
		}
		next := s.clone()
		next.Highlighted = ""
		next.ExpandedPath = nil
		next.Matches = nil
		next.Screen = Viewing
		return next, nil
	case StatusRefresh:
		// Batches started for an earlier map are dropped.
		if ev.Generation != s.StatusGeneration {
			return s, nil
		}
		next := s.clone()
		if next.Statuses == nil {
			next.Statuses = make(map[hierarchy.ComponentID]hierarchy.Status, len(ev.Statuses))
		}
		for id, st := range ev.Statuses {
			next.Statuses[id] = st
		}
		return next, nil
	default:
		return s, fmt.Errorf("%w: unsupported event %T", ErrInvalidTransition, ev)
	}
}

func (r Reducer) search(s State, ev Search) (State, error) {
	id := hierarchy.NormalizeID(ev.Term)
	if id == "" {
		return s, ErrEmptyTerm
	}
	matches := r.Registry.Find(string(id))
	switch registry.Classify(matches) {
	case registry.NotFound:
		return s, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	case registry.Single:
		m, ok := r.Registry.Get(matches[0].Name)
		if !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownMap, matches[0].Name)
		}
		next := s.clone()
		next.activate(m)
		next.Highlighted = id
		next.ExpandedPath = hierarchy.PathTo(m.Components, id)
		next.Matches = nil
		next.Screen = Viewing
		return next, nil
	default:
		next := s.clone()
		next.Highlighted = id
		next.ExpandedPath = nil
		next.Matches = matches
		next.Screen = Disambiguation
		return next, nil
	}
}

func (r Reducer) chooseMap(s State, ev ChooseMap) (State, error) {
	if s.Screen != Disambiguation {
		return s, fmt.Errorf("%w: choose map on %s screen", ErrInvalidTransition, s.Screen)
	}
	offered := false
	for _, m := range s.Matches {
		if m.Name == ev.Name {
			offered = true
			break
		}
	}
	if !offered {
		return s, fmt.Errorf("%w: %s", ErrUnknownMap, ev.Name)
	}
	m, ok := r.Registry.Get(ev.Name)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownMap, ev.Name)
	}

	next := s.clone()
	next.activate(m)
	next.ExpandedPath = hierarchy.PathTo(m.Components, s.Highlighted)
	next.Matches = nil
	next.Screen = Viewing
	return next, nil
}

// activate switches the active map. A different map invalidates the current
// statuses and moves to a new generation.
func (s *State) activate(m *registry.NamedMap) {
	if s.ActiveMap != nil && s.ActiveMap.Name == m.Name {
		s.ActiveMap = m
		return
	}
	s.ActiveMap = m
	s.StatusGeneration++
	s.Statuses = nil
}
