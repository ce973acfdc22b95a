package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
)

var (
	treeFormat    string
	treeHighlight string
	treeLive      bool
)

var treeCmd = &cobra.Command{
	Use:   "tree MAP",
	Short: "Print a component map",
	Long:  `Prints a map as a text tree, a Mermaid flowchart or a JSON node/edge list.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		var resolver registry.StatusResolver
		if treeLive {
			client := statusClient(cfg)
			if client == nil {
				return fmt.Errorf("--live needs servicenow.instance or status.proxy_url in %s", cfgFile)
			}
			logs := SetupLogger(cfg.Log, verbose)
			defer logs.Close()
			resolver = newFetcher(cfg, client, logs.Logger, statusReporterOption())
		}

		return runTree(cmd.Context(), cmd.OutOrStdout(), reg, args[0], treeHighlight, treeFormat, resolver)
	},
}

func runTree(ctx context.Context, w io.Writer, reg *registry.Registry, name, highlight, format string, resolver registry.StatusResolver) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("map %q not found", name)
	}

	id := hierarchy.NormalizeID(highlight)
	var expand map[hierarchy.ComponentID]bool
	if id != "" {
		path := hierarchy.PathTo(m.Components, id)
		if path == nil {
			return fmt.Errorf("%s is not part of map %s", id, m.Name)
		}
		expand = hierarchy.ExpandSet(path)
	}

	var statusOf hierarchy.StatusFunc
	if resolver != nil {
		statusOf = hierarchy.StatusLookup(resolver.Resolve(ctx, m.Components.AllComponents()))
	}
	tree := hierarchy.Build(m.Components, statusOf, id, expand)

	switch format {
	case "text", "":
		return diagrams.Text(w, tree)
	case "mermaid":
		_, err := io.WriteString(w, diagrams.Mermaid(tree, diagrams.DefaultStylesheet))
		return err
	case "json":
		data, err := json.MarshalIndent(diagrams.Flatten(tree, diagrams.DefaultStylesheet), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding diagram: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unknown format %q: must be text, mermaid or json", format)
	}
}

func init() {
	treeCmd.Flags().StringVarP(&treeFormat, "format", "f", "text", "Output format: text, mermaid or json")
	treeCmd.Flags().StringVar(&treeHighlight, "highlight", "", "Component to highlight; its ancestors are expanded")
	treeCmd.Flags().BoolVar(&treeLive, "live", false, "Overlay live statuses")
	rootCmd.AddCommand(treeCmd)
}
