package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/config"
	"github.com/ziadkadry99/riskmap/internal/registry"
)

const starterMap = `maps:
  - name: ExampleTree
    description: Replace this with one of your business processes.
    components:
      FRONTDOOR: [ORDERS, PAYMENTS]
      PAYMENTS: [LEDGER, FRAUDCHECK]
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize riskmap configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure riskmap for your project and generates a .riskmap.yml file. A starter map is written when no map files exist yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		path, err := writeStarterMap(cfg)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Starter map written to %s\n", path)
		}
		return nil
	},
}

// writeStarterMap creates maps/default.yml when the configured patterns match
// nothing. It returns the path written, or "" when maps already exist.
func writeStarterMap(cfg *config.Config) (string, error) {
	files, err := registry.ResolveFiles(cfg.Maps)
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		return "", nil
	}

	path := filepath.Join("maps", "default.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating maps dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterMap), 0o644); err != nil {
		return "", fmt.Errorf("writing starter map: %w", err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
