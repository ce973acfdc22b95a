package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/tui"
	"github.com/ziadkadry99/riskmap/internal/view"
)

var (
	searchMap  string
	searchLive bool
)

// chooseMap asks the user which of several maps to open.
var chooseMap = func(id hierarchy.ComponentID, matches []registry.Match) (string, error) {
	items := make([]string, len(matches))
	for i, m := range matches {
		items[i] = m.Name
		if m.Description != "" {
			items[i] += " (" + m.Description + ")"
		}
	}
	prompt := promptui.Select{
		Label: fmt.Sprintf("%s appears in %d maps", id, len(matches)),
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("choosing map: %w", err)
	}
	return matches[idx].Name, nil
}

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Find a component and show its map",
	Long: `Searches every map for a component. When the component is in one map, the
map is printed with the component highlighted and its ancestors expanded. When
it is in several, you are asked which map to open (or pass --map).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		logs := SetupLogger(cfg.Log, verbose)
		defer logs.Close()

		var fetcher tui.BatchFetcher
		if searchLive {
			client := statusClient(cfg)
			if client == nil {
				return fmt.Errorf("--live needs servicenow.instance or status.proxy_url in %s", cfgFile)
			}
			fetcher = newFetcher(cfg, client, logs.Logger, statusReporterOption())
		}

		return runSearch(cmd.Context(), cmd.OutOrStdout(), reg, args[0], searchMap, fetcher, logs.Logger)
	},
}

// runSearch drives the view reducer the same way the viewer does and prints
// the resulting tree.
func runSearch(ctx context.Context, w io.Writer, reg *registry.Registry, term, mapName string, fetcher tui.BatchFetcher, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reducer := view.Reducer{Registry: reg}

	state, err := reducer.Reduce(view.State{}, view.Search{Term: term})
	if err != nil {
		return err
	}

	if state.Screen == view.Disambiguation {
		name := mapName
		if name == "" {
			if name, err = chooseMap(state.Highlighted, state.Matches); err != nil {
				return err
			}
		}
		if state, err = reducer.Reduce(state, view.ChooseMap{Name: name}); err != nil {
			return err
		}
	} else if mapName != "" && state.ActiveMap.Name != mapName {
		return fmt.Errorf("%w: %s is not in map %s", view.ErrComponentNotFound, state.Highlighted, mapName)
	}

	if fetcher != nil {
		if gen, ids, ok := view.StatusRequest(state); ok {
			batch := fetcher.Fetch(ctx, gen, ids)
			if state, err = reducer.Reduce(state, view.StatusRefresh{Generation: batch.Generation, Statuses: batch.Statuses}); err != nil {
				return err
			}
			if len(batch.Failed) > 0 {
				logger.Warn("some statuses are unavailable", "components", batch.Failed)
			}
		}
	}

	tree := view.Tree(state)
	fmt.Fprintf(w, "%s\n", state.ActiveMap.Name)
	fmt.Fprintf(w, "Path: %s\n\n", joinPath(state.ExpandedPath))
	if err := diagrams.Text(w, tree); err != nil {
		return err
	}

	events := view.NewEventTable(tree, view.Handlers{})
	tree.Walk(func(n *hierarchy.TreeNode, _ int) bool {
		if tip := events.OnNodeHoverEnter(n.ID); tip != "" {
			fmt.Fprintf(w, "! %s\n", tip)
		}
		return true
	})
	return nil
}

func joinPath(path []hierarchy.ComponentID) string {
	out := ""
	for i, id := range path {
		if i > 0 {
			out += " -> "
		}
		out += string(id)
	}
	return out
}

func init() {
	searchCmd.Flags().StringVar(&searchMap, "map", "", "Map to open when the component is in several")
	searchCmd.Flags().BoolVar(&searchLive, "live", false, "Overlay live statuses")
	rootCmd.AddCommand(searchCmd)
}
