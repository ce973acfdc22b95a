package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/status"
	"github.com/ziadkadry99/riskmap/internal/view"
)

// batchMsg carries a finished status fetch.
type batchMsg status.Batch

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	if m.pending == "" {
		return nil
	}
	term := m.pending
	return func() tea.Msg {
		return searchMsg(term)
	}
}

// searchMsg asks the model to run a search.
type searchMsg string

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case searchMsg:
		m.pending = ""
		return m.apply(view.Search{Term: string(msg)})

	case batchMsg:
		return m.handleBatch(status.Batch(msg))

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		if m.mode == modeSearch {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == modeSearch {
		switch key {
		case "enter":
			term := m.input.Value()
			m.closeSearch()
			return m.apply(view.Search{Term: term})
		case "esc":
			m.closeSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.message = ""
		return m, tea.Batch(m.input.Focus(), textinput.Blink)
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	}

	switch m.state.Screen {
	case view.Disambiguation:
		if key == "enter" && m.cursor < len(m.state.Matches) {
			return m.apply(view.ChooseMap{Name: m.state.Matches[m.cursor].Name})
		}
	case view.Viewing:
		switch key {
		case "enter", " ":
			if m.cursor < len(m.rows) && m.events.OnNodeClick(m.rows[m.cursor].node.ID) {
				id := m.rows[m.cursor].node.ID
				m.rebuild()
				m.focus(id)
			}
			return m, nil
		case "r":
			return m.apply(view.Reset{})
		case "s":
			return m.refresh()
		}
	}
	return m, nil
}

func (m *model) closeSearch() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.hover()
}

// focus moves the cursor to id if it is visible.
func (m *model) focus(id hierarchy.ComponentID) {
	for i, r := range m.rows {
		if r.node.ID == id {
			m.cursor = i
			break
		}
	}
	m.hover()
}

// apply runs ev through the reducer. Showing another map clears local
// collapse toggles and starts a status fetch.
func (m model) apply(ev view.Event) (tea.Model, tea.Cmd) {
	prevGen := m.state.StatusGeneration
	prevScreen := m.state.Screen

	next, err := m.reducer.Reduce(m.state, ev)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.state = next
	m.message = ""

	_, isReset := ev.(view.Reset)
	mapChanged := next.StatusGeneration != prevGen
	if mapChanged || isReset {
		m.toggled = make(map[hierarchy.ComponentID]bool)
	}
	if next.Screen != prevScreen || mapChanged {
		m.cursor = 0
	}
	m.rebuild()
	m.focusHighlighted()

	if mapChanged && next.Screen == view.Viewing {
		return m.refresh()
	}
	return m, nil
}

// refresh starts a status fetch for the active map.
func (m model) refresh() (tea.Model, tea.Cmd) {
	if m.fetcher == nil {
		m.message = "live statuses are not configured"
		return m, nil
	}
	gen, ids, ok := view.StatusRequest(m.state)
	if !ok {
		return m, nil
	}
	m.fetching = true
	fetcher, ctx := m.fetcher, m.ctx
	fetch := func() tea.Msg {
		return batchMsg(fetcher.Fetch(ctx, gen, ids))
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

// handleBatch applies a finished fetch. Batches for a map that is no longer
// shown are dropped by the reducer.
func (m model) handleBatch(b status.Batch) (tea.Model, tea.Cmd) {
	if b.Generation != m.state.StatusGeneration {
		return m, nil
	}
	next, err := m.reducer.Reduce(m.state, view.StatusRefresh{Generation: b.Generation, Statuses: b.Statuses})
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.state = next
	m.fetching = false
	m.message = ""
	if len(b.Failed) > 0 {
		names := make([]string, len(b.Failed))
		for i, id := range b.Failed {
			names[i] = string(id)
		}
		m.message = fmt.Sprintf("status unavailable for %s", strings.Join(names, ", "))
	}

	var id hierarchy.ComponentID
	if m.cursor < len(m.rows) {
		id = m.rows[m.cursor].node.ID
	}
	m.rebuild()
	m.focus(id)
	return m, nil
}
