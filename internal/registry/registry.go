// Package registry holds the named component maps, answers cross-map
// component searches and serves them over HTTP.
package registry

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// ErrDuplicateName is returned when two maps share a name.
var ErrDuplicateName = errors.New("duplicate map name")

// NamedMap is a component map with a display name and description.
type NamedMap struct {
	Name        string                  `yaml:"name" json:"name" validate:"required"`
	Description string                  `yaml:"description" json:"description"`
	Components  *hierarchy.AdjacencyMap `yaml:"components" json:"components" validate:"required"`
	Source      string                  `yaml:"-" json:"source,omitempty"` // file the map was loaded from
}

// Registry is an ordered, validated set of maps with a component index.
type Registry struct {
	maps   []NamedMap
	byName map[string]int
	index  map[hierarchy.ComponentID][]int
}

// New validates every map and builds the component index. A map that fails
// hierarchy.Validate is rejected along with the whole registry.
func New(maps []NamedMap) (*Registry, error) {
	r := &Registry{
		maps:   make([]NamedMap, 0, len(maps)),
		byName: make(map[string]int, len(maps)),
		index:  make(map[hierarchy.ComponentID][]int),
	}
	for _, m := range maps {
		if m.Components == nil {
			return nil, fmt.Errorf("map %q: no components", m.Name)
		}
		if _, ok := r.byName[m.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, m.Name)
		}
		if err := hierarchy.Validate(m.Components); err != nil {
			if m.Source != "" {
				return nil, fmt.Errorf("map %q in %s: %w", m.Name, m.Source, err)
			}
			return nil, fmt.Errorf("map %q: %w", m.Name, err)
		}

		pos := len(r.maps)
		r.maps = append(r.maps, m)
		r.byName[m.Name] = pos
		for _, id := range m.Components.AllComponents() {
			r.index[id] = append(r.index[id], pos)
		}
	}
	return r, nil
}

// Maps returns the maps in registry order.
func (r *Registry) Maps() []NamedMap {
	out := make([]NamedMap, len(r.maps))
	copy(out, r.maps)
	return out
}

// Len returns the number of maps.
func (r *Registry) Len() int { return len(r.maps) }

// Get returns the map with the given name.
func (r *Registry) Get(name string) (*NamedMap, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	m := r.maps[i]
	return &m, true
}

// ComponentCount returns the number of distinct components across all maps.
func (r *Registry) ComponentCount() int { return len(r.index) }
