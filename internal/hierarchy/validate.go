package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrCycleDetected is wrapped by *CycleError.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrEmptyRootSet is returned when every component is someone's child,
	// or the map has no entries at all.
	ErrEmptyRootSet = errors.New("empty root set")
	// ErrSharedChild is returned when a component has more than one parent
	// or appears twice in one child list.
	ErrSharedChild = errors.New("component listed under more than one parent")
)

// CycleError reports the members of one cycle, in key order rather than
// edge order.
type CycleError struct {
	Members []ComponentID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Members))
	for i, id := range e.Members {
		ids[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(ids, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// Validate checks that m is an acyclic forest with at least one root.
// Components without an entry are leaves and are not reported.
func Validate(m *AdjacencyMap) error {
	if err := checkCycles(m); err != nil {
		return err
	}
	if len(m.Roots()) == 0 {
		return ErrEmptyRootSet
	}
	parent := make(map[ComponentID]ComponentID)
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			if p, ok := parent[c]; ok {
				return fmt.Errorf("%w: %s under %s and %s", ErrSharedChild, c, p, k)
			}
			parent[c] = k
		}
	}
	return nil
}

// checkCycles loads m into a gonum directed graph and looks for strongly
// connected components with more than one member. Self-loops are checked
// first since simple.DirectedGraph does not accept them.
func checkCycles(m *AdjacencyMap) error {
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			if c == k {
				return &CycleError{Members: []ComponentID{k}}
			}
		}
	}

	all := m.AllComponents()
	nodeOf := make(map[ComponentID]int64, len(all))
	idOf := make(map[int64]ComponentID, len(all))
	g := simple.NewDirectedGraph()
	for i, id := range all {
		n := simple.Node(int64(i))
		g.AddNode(n)
		nodeOf[id] = n.ID()
		idOf[n.ID()] = id
	}
	for _, e := range m.Edges() {
		g.SetEdge(g.NewEdge(g.Node(nodeOf[e.From]), g.Node(nodeOf[e.To])))
	}

	var found [][]int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]int64, len(scc))
		for i, n := range scc {
			ids[i] = n.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		found = append(found, ids)
	}
	if len(found) == 0 {
		return nil
	}
	// Report the cycle containing the earliest component.
	sort.Slice(found, func(i, j int) bool { return found[i][0] < found[j][0] })
	members := make([]ComponentID, len(found[0]))
	for i, n := range found[0] {
		members[i] = idOf[n]
	}
	return &CycleError{Members: members}
}
