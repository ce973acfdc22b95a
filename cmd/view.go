package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [TERM]",
	Short: "Browse maps in an interactive terminal viewer",
	Long: `Opens the interactive viewer. Press / to search for a component, enter to
expand or collapse a node, s to refresh statuses, r to reset the view and q to
quit. Logs are written to a file so they never disturb the screen.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		logs := SetupFileLogger(tuiLogPath(cfg), logLevel(cfg.Log.Level, verbose), cfg.Log)
		defer logs.Close()
		logs.Logger.Info("viewer starting", "maps", reg.Len(), "components", reg.ComponentCount())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []tui.Option{tui.WithContext(ctx)}
		if len(args) == 1 {
			opts = append(opts, tui.WithInitialSearch(args[0]))
		}

		var fetcher tui.BatchFetcher
		if client := statusClient(cfg); client != nil {
			fetcher = newFetcher(cfg, client, logs.Logger)
		} else {
			logs.Logger.Warn("no status source configured; statuses will be unknown")
		}

		return tui.New(reg, fetcher, opts...).Run()
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
