package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/view"
)

// inputMode says where key presses go.
type inputMode int

const (
	// modeBrowse sends keys to the current screen.
	modeBrowse inputMode = iota
	// modeSearch sends keys to the search box.
	modeSearch
)

// treeRow is one visible line of the tree.
type treeRow struct {
	node      *hierarchy.TreeNode
	depth     int
	collapsed bool
	hidden    int
}

// model is the bubbletea model for the viewer.
type model struct {
	ctx     context.Context
	reducer view.Reducer
	fetcher BatchFetcher

	// Viewer state; everything below is derived from it or local to the terminal.
	state view.State

	input   textinput.Model
	spinner spinner.Model
	mode    inputMode

	// toggled flips the default collapse state of a node. It is cleared
	// whenever the tree is reset or another map is shown.
	toggled map[hierarchy.ComponentID]bool
	rows    []treeRow
	events  *view.EventTable
	cursor  int

	fetching bool
	message  string
	pending  string

	width  int
	height int
}

// newModel creates a model. A non-empty search is run on Init.
func newModel(ctx context.Context, reducer view.Reducer, fetcher BatchFetcher, search string) model {
	input := textinput.New()
	input.Placeholder = "component id"
	input.Prompt = "/ "
	input.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:     ctx,
		reducer: reducer,
		fetcher: fetcher,
		input:   input,
		spinner: sp,
		toggled: make(map[hierarchy.ComponentID]bool),
		pending: search,
	}
	m.rebuild()
	return m
}

// rebuild recomputes the rows and the event table from the state.
func (m *model) rebuild() {
	tree := view.Tree(m.state)
	toggled := m.toggled
	m.events = view.NewEventTable(tree, view.Handlers{
		Click: func(n *hierarchy.TreeNode) {
			if len(n.Children) > 0 {
				toggled[n.ID] = !toggled[n.ID]
			}
		},
	})
	m.rows = visibleRows(tree, toggled)
	m.clampCursor()
	m.hover()
}

// visibleRows lists the nodes shown when collapse state is taken from the
// tree and flipped by toggled.
func visibleRows(tree *hierarchy.TreeNode, toggled map[hierarchy.ComponentID]bool) []treeRow {
	var rows []treeRow
	tree.Walk(func(n *hierarchy.TreeNode, depth int) bool {
		collapsed := n.Collapsed != toggled[n.ID]
		row := treeRow{node: n, depth: depth, collapsed: collapsed && len(n.Children) > 0}
		if row.collapsed {
			row.hidden = n.Count() - 1
		}
		rows = append(rows, row)
		return !row.collapsed
	})
	return rows
}

// listLen is the number of selectable entries on the current screen.
func (m model) listLen() int {
	switch m.state.Screen {
	case view.Disambiguation:
		return len(m.state.Matches)
	case view.Viewing:
		return len(m.rows)
	default:
		return 0
	}
}

func (m *model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// hover points the event table at the node under the cursor.
func (m *model) hover() {
	if m.state.Screen != view.Viewing || m.cursor >= len(m.rows) {
		m.events.OnNodeHoverLeave()
		return
	}
	m.events.OnNodeHoverEnter(m.rows[m.cursor].node.ID)
}

// focusHighlighted moves the cursor to the highlighted component's row.
func (m *model) focusHighlighted() {
	for i, r := range m.rows {
		if r.node.Highlighted {
			m.cursor = i
			m.hover()
			return
		}
	}
}
