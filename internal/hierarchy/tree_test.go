package hierarchy

import (
	"reflect"
	"testing"
)

func loanMap(t *testing.T) *AdjacencyMap {
	t.Helper()
	return mustMap(t,
		e("ULSHIP", "AEAPS", "ULDEC", "DEPCT"),
		e("ULDEC", "ULDEC_PRICING", "UMGM"),
		e("DEPCT", "CMBS1", "CORD", "FICO_DMP"),
		e("ULAPY", "ULDEC2", "FRIES"),
		e("ULDEC2", "DEPCT2"),
		e("DEPCT2", "CMBS1_2"),
		e("FRIES", "FRAUD", "IDPF", "CIP", "SOCURE"),
		e("CIP", "ECBSV", "LEXIS", "EWS"),
		e("ULAPY_LOAD", "ACAPS"),
		e("ACAPS", "SHAW"),
		e("SHAW", "EIW", "BMG"),
	)
}

func TestBuildSingleRoot(t *testing.T) {
	m := mustMap(t, e("A", "B", "C"), e("B", "D"))
	tree := Build(m, nil, "", nil)

	if tree.ID != "A" || tree.Synthetic {
		t.Fatalf("root = %+v, want A", tree)
	}
	if len(tree.Children) != 2 || tree.Children[0].ID != "B" || tree.Children[1].ID != "C" {
		t.Fatalf("children of A = %+v", tree.Children)
	}
	d := tree.Find("D")
	if d == nil {
		t.Fatal("D missing from tree")
	}
	if !d.Collapsed {
		t.Error("D is at depth 2 and should be collapsed")
	}
	if tree.Collapsed || tree.Children[0].Collapsed {
		t.Error("nodes above the collapse depth should be expanded")
	}
	if d.Status != StatusUnknown {
		t.Errorf("D status = %q, want unknown", d.Status)
	}
}

func TestBuildSyntheticRoot(t *testing.T) {
	m := loanMap(t)
	tree := Build(m, nil, "", nil)

	if tree.ID != SyntheticRootID || !tree.Synthetic {
		t.Fatalf("root = %q, want synthetic Root", tree.ID)
	}
	if tree.Status != "" {
		t.Errorf("synthetic root status = %q, want empty", tree.Status)
	}
	var ids []ComponentID
	for _, c := range tree.Children {
		ids = append(ids, c.ID)
	}
	want := []ComponentID{"ULSHIP", "ULAPY", "ULAPY_LOAD"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("root children = %v, want %v", ids, want)
	}
	// Roots keep depth 0 under the synthetic node.
	if tree.Find("ACAPS").Collapsed {
		t.Error("ACAPS is at depth 1 and should be expanded")
	}
	if !tree.Find("SHAW").Collapsed {
		t.Error("SHAW is at depth 2 and should be collapsed")
	}
}

func TestBuildHighlightAndStatus(t *testing.T) {
	m := mustMap(t, e("A", "B", "C"), e("B", "D"))
	statuses := map[ComponentID]Status{"B": StatusIncident, "D": StatusHealthy}
	tree := Build(m, StatusLookup(statuses), "D", nil)

	if got := tree.Highlights(); !reflect.DeepEqual(got, []ComponentID{"D"}) {
		t.Errorf("Highlights = %v, want [D]", got)
	}
	if tree.Find("B").Status != StatusIncident {
		t.Errorf("B status = %q", tree.Find("B").Status)
	}
	if tree.Find("C").Status != StatusUnknown {
		t.Errorf("C status = %q, want unknown", tree.Find("C").Status)
	}
}

func TestBuildForceExpand(t *testing.T) {
	m := mustMap(t, e("A", "B"), e("B", "C"), e("C", "D", "X"), e("D", "E"))

	path := PathTo(m, "E")
	tree := Build(m, nil, "E", ExpandSet(path))

	for _, id := range path {
		if tree.Find(id).Collapsed {
			t.Errorf("%s is on the path and should be expanded", id)
		}
	}
	if !tree.Find("X").Collapsed {
		t.Error("X is off the path at depth 3 and should stay collapsed")
	}
}

func TestBuildDoesNotMutateAcrossCalls(t *testing.T) {
	m := mustMap(t, e("A", "B"), e("B", "C"))
	first := Build(m, nil, "C", ExpandSet([]ComponentID{"A", "B", "C"}))
	second := Build(m, nil, "", nil)

	if !first.Find("C").Highlighted || first.Find("C").Collapsed {
		t.Error("first tree changed after a later Build")
	}
	if len(second.Highlights()) != 0 {
		t.Error("second tree should have no highlight")
	}
}

func TestTreeCount(t *testing.T) {
	m := loanMap(t)
	tree := Build(m, nil, "", nil)
	if got, want := tree.Count(), len(m.AllComponents()); got != want {
		t.Errorf("Count = %d, want %d", got, want)
	}
}
