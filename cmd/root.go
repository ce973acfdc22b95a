package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "riskmap",
	Short: "Component dependency maps with live status",
	Long: `riskmap shows how the components of a business process depend on each
other. Search for a component to see every map it belongs to, open the map
with the component highlighted, and overlay live statuses from ServiceNow to
spot what is at risk.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
