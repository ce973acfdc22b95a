// Package hierarchy models component dependency maps and derives the
// renderable tree and search paths from them.
package hierarchy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ComponentID identifies a component within a map. IDs are case-normalized.
type ComponentID string

// NormalizeID trims surrounding whitespace and uppercases s.
func NormalizeID(s string) ComponentID {
	return ComponentID(strings.ToUpper(strings.TrimSpace(s)))
}

var (
	// ErrEmptyID is returned when a parent or child id is blank.
	ErrEmptyID = errors.New("empty component id")
	// ErrDuplicateEntry is returned when a parent is listed twice.
	ErrDuplicateEntry = errors.New("duplicate component entry")
)

// Entry is one parent and its ordered children.
type Entry struct {
	Parent   ComponentID   `json:"parent"`
	Children []ComponentID `json:"children"`
}

// AdjacencyMap maps a component to its ordered children. Key order is the
// order entries were added and drives root ordering.
type AdjacencyMap struct {
	keys     []ComponentID
	children map[ComponentID][]ComponentID
}

// NewAdjacencyMap returns an empty map.
func NewAdjacencyMap() *AdjacencyMap {
	return &AdjacencyMap{children: make(map[ComponentID][]ComponentID)}
}

// FromEntries builds a map from entries in order.
func FromEntries(entries ...Entry) (*AdjacencyMap, error) {
	m := NewAdjacencyMap()
	for _, e := range entries {
		if err := m.Add(e.Parent, e.Children...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers parent with the given children. IDs are normalized.
func (m *AdjacencyMap) Add(parent ComponentID, children ...ComponentID) error {
	p := NormalizeID(string(parent))
	if p == "" {
		return ErrEmptyID
	}
	if _, ok := m.children[p]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, p)
	}
	kids := make([]ComponentID, 0, len(children))
	for _, c := range children {
		id := NormalizeID(string(c))
		if id == "" {
			return fmt.Errorf("%w: child of %s", ErrEmptyID, p)
		}
		kids = append(kids, id)
	}
	m.keys = append(m.keys, p)
	m.children[p] = kids
	return nil
}

// Keys returns parent ids in insertion order.
func (m *AdjacencyMap) Keys() []ComponentID {
	out := make([]ComponentID, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of parent entries.
func (m *AdjacencyMap) Len() int { return len(m.keys) }

// Children returns the children of id. The bool is false when id has no entry,
// in which case it is a leaf.
func (m *AdjacencyMap) Children(id ComponentID) ([]ComponentID, bool) {
	kids, ok := m.children[id]
	return kids, ok
}

// childSet returns every id that appears in some child list.
func (m *AdjacencyMap) childSet() map[ComponentID]bool {
	set := make(map[ComponentID]bool)
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			set[c] = true
		}
	}
	return set
}

// Roots returns every id that never appears as a child, in key order.
// Only keys can qualify: an id that is not a key was reached as a child.
func (m *AdjacencyMap) Roots() []ComponentID {
	kids := m.childSet()
	var roots []ComponentID
	for _, k := range m.keys {
		if !kids[k] {
			roots = append(roots, k)
		}
	}
	return roots
}

// AllComponents returns keys and children, keys first, each id once.
func (m *AdjacencyMap) AllComponents() []ComponentID {
	seen := make(map[ComponentID]bool, len(m.keys))
	out := make([]ComponentID, 0, len(m.keys))
	for _, k := range m.keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Contains reports whether id is a key or a child in the map.
func (m *AdjacencyMap) Contains(id ComponentID) bool {
	if _, ok := m.children[id]; ok {
		return true
	}
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			if c == id {
				return true
			}
		}
	}
	return false
}

// Edge is a parent to child link.
type Edge struct {
	From ComponentID `json:"from"`
	To   ComponentID `json:"to"`
}

// Edges returns every parent to child edge in key then child order.
func (m *AdjacencyMap) Edges() []Edge {
	var edges []Edge
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			edges = append(edges, Edge{From: k, To: c})
		}
	}
	return edges
}

// Entries returns the map as ordered entries.
func (m *AdjacencyMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		kids := make([]ComponentID, len(m.children[k]))
		copy(kids, m.children[k])
		out = append(out, Entry{Parent: k, Children: kids})
	}
	return out
}

// MarshalJSON encodes the map as a JSON object whose keys keep insertion order.
func (m *AdjacencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		kids := m.children[k]
		if kids == nil {
			kids = []ComponentID{}
		}
		val, err := json.Marshal(kids)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
