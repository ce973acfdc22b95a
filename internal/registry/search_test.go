package registry

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

func TestFind(t *testing.T) {
	reg := sampleRegistry(t)

	tests := []struct {
		term        string
		wantNames   []string
		wantOutcome Outcome
	}{
		{"uldec", []string{"LoanProcessTree", "AccountOpeningTree"}, Ambiguous},
		{"  fico ", []string{"LoanProcessTree"}, Single},
		{"KYC", []string{"AccountOpeningTree"}, Single},
		{"nothing", nil, NotFound},
		{"   ", nil, NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			for label, got := range map[string][]Match{
				"scan":  Find(reg.Maps(), tt.term),
				"index": reg.Find(tt.term),
			} {
				var names []string
				for _, m := range got {
					names = append(names, m.Name)
				}
				if !reflect.DeepEqual(names, tt.wantNames) {
					t.Errorf("%s: names = %v, want %v", label, names, tt.wantNames)
				}
				if o := Classify(got); o != tt.wantOutcome {
					t.Errorf("%s: outcome = %v, want %v", label, o, tt.wantOutcome)
				}
			}
		})
	}
}

func TestFindCarriesDescription(t *testing.T) {
	got := sampleRegistry(t).Find("kyc")
	if len(got) != 1 || got[0].Description != "Account opening" {
		t.Errorf("Find(kyc) = %+v", got)
	}
}

func TestOutcomeText(t *testing.T) {
	for o, want := range map[Outcome]string{NotFound: "not_found", Single: "single", Ambiguous: "ambiguous"} {
		b, err := o.MarshalText()
		if err != nil || string(b) != want {
			t.Errorf("MarshalText(%d) = %q, %v; want %q", o, b, err, want)
		}
	}
}

// randomRegistry draws up to five disjoint-named chain maps over a small
// shared component alphabet so that components recur across maps.
func randomRegistry(t *rapid.T) *Registry {
	n := rapid.IntRange(0, 5).Draw(t, "maps")
	var maps []NamedMap
	for i := 0; i < n; i++ {
		perm := rapid.Permutation([]int{0, 1, 2, 3, 4, 5, 6, 7}).Draw(t, fmt.Sprintf("perm_%d", i))
		size := rapid.IntRange(2, len(perm)).Draw(t, fmt.Sprintf("size_%d", i))
		m := hierarchy.NewAdjacencyMap()
		for j := 0; j+1 < size; j++ {
			parent := hierarchy.ComponentID(fmt.Sprintf("C%d", perm[j]))
			child := hierarchy.ComponentID(fmt.Sprintf("C%d", perm[j+1]))
			if err := m.Add(parent, child); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		maps = append(maps, NamedMap{Name: fmt.Sprintf("map%d", i), Components: m})
	}
	reg, err := New(maps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

func TestPropertyIndexMatchesScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := randomRegistry(t)
		term := fmt.Sprintf("c%d", rapid.IntRange(0, 9).Draw(t, "component"))
		if got, want := reg.Find(term), Find(reg.Maps(), term); !reflect.DeepEqual(got, want) {
			t.Fatalf("index %v != scan %v", got, want)
		}
	})
}

func TestPropertyNormalizationIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := randomRegistry(t)
		term := fmt.Sprintf("c%d", rapid.IntRange(0, 9).Draw(t, "component"))
		pad := strings.Repeat(" ", rapid.IntRange(0, 3).Draw(t, "pad"))
		want := reg.Find(term)
		for _, variant := range []string{strings.ToUpper(term), pad + term + pad, string(hierarchy.NormalizeID(term))} {
			if got := reg.Find(variant); !reflect.DeepEqual(got, want) {
				t.Fatalf("Find(%q) = %v, want %v", variant, got, want)
			}
		}
	})
}
