package registry

import "github.com/ziadkadry99/riskmap/internal/hierarchy"

// Match identifies a map that contains the searched component.
type Match struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Outcome classifies a search result.
type Outcome int

const (
	NotFound Outcome = iota
	Single
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Single:
		return "single"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// MarshalText encodes the outcome as its name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Classify returns the outcome for a list of matches.
func Classify(matches []Match) Outcome {
	switch len(matches) {
	case 0:
		return NotFound
	case 1:
		return Single
	default:
		return Ambiguous
	}
}

// Find returns every map containing term, in the order given. The term is
// trimmed and uppercased first; a blank term matches nothing.
func Find(maps []NamedMap, term string) []Match {
	id := hierarchy.NormalizeID(term)
	if id == "" {
		return nil
	}
	var matches []Match
	for _, m := range maps {
		if m.Components != nil && m.Components.Contains(id) {
			matches = append(matches, Match{Name: m.Name, Description: m.Description})
		}
	}
	return matches
}

// Find answers from the component index. Results equal Find(r.Maps(), term).
func (r *Registry) Find(term string) []Match {
	id := hierarchy.NormalizeID(term)
	if id == "" {
		return nil
	}
	positions := r.index[id]
	if len(positions) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(positions))
	for _, i := range positions {
		matches = append(matches, Match{Name: r.maps[i].Name, Description: r.maps[i].Description})
	}
	return matches
}
