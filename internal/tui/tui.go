// Package tui provides an interactive terminal viewer for component maps
// using bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/status"
	"github.com/ziadkadry99/riskmap/internal/view"
)

// BatchFetcher fetches the statuses of a set of components in one batch.
// *status.Fetcher implements it.
type BatchFetcher interface {
	Fetch(ctx context.Context, generation uint64, ids []hierarchy.ComponentID) status.Batch
}

// TUI is the terminal map viewer.
type TUI struct {
	catalog view.Catalog
	fetcher BatchFetcher
	ctx     context.Context
	search  string
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a viewer over catalog. fetcher may be nil, in which case the
// viewer shows every component as unknown.
func New(catalog view.Catalog, fetcher BatchFetcher, opts ...Option) *TUI {
	t := &TUI{
		catalog: catalog,
		fetcher: fetcher,
		ctx:     context.Background(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithContext sets the context status fetches run under.
func WithContext(ctx context.Context) Option {
	return func(t *TUI) {
		t.ctx = ctx
	}
}

// WithInitialSearch runs a search for term as soon as the viewer starts.
func WithInitialSearch(term string) Option {
	return func(t *TUI) {
		t.search = term
	}
}

// Run starts the TUI and blocks until it exits.
func (t *TUI) Run() error {
	m := newModel(t.ctx, view.Reducer{Registry: t.catalog}, t.fetcher, t.search)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
