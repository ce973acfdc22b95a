package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and every map file",
	Long: `Loads the config and every map file it points at, and reports the first
structural problem found: a cycle, a map without a root, a component listed
under two parents, or a duplicate map name. Exits non-zero on failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		files, err := registry.ResolveFiles(cfg.Maps)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no map files match %v", cfg.Maps)
		}
		reg, err := registry.LoadFiles(cfg.Maps)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), files, reg)
		return nil
	},
}

func printSummary(w io.Writer, files []string, reg *registry.Registry) {
	fmt.Fprintf(w, "%d file(s), %d map(s), %d component(s)\n", len(files), reg.Len(), reg.ComponentCount())
	for _, m := range reg.Maps() {
		fmt.Fprintf(w, "  %-24s %3d components  roots: %s\n", m.Name, len(m.Components.AllComponents()), joinPath(m.Components.Roots()))
	}
	fmt.Fprintln(w, "OK")
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
