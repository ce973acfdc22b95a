package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/status"
)

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history COMPONENT",
	Short: "Show the recorded status history of a component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		snaps, err := status.NewStore(database).History(cmd.Context(), hierarchy.ComponentID(args[0]), historyLimit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), hierarchy.NormalizeID(args[0]), snaps)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old status snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := status.NewStore(database).DeleteBefore(cmd.Context(), time.Now().Add(-historyOlderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot(s) older than %s\n", n, historyOlderThan)
		return nil
	},
}

func printHistory(w io.Writer, id hierarchy.ComponentID, snaps []status.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintf(w, "No status recorded for %s\n", id)
		return
	}
	for _, s := range snaps {
		line := fmt.Sprintf("%s  %-11s  %s", s.RecordedAt.Local().Format(time.DateTime), s.Status, s.Source)
		if s.Error != "" {
			line += "  " + s.Error
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of snapshots to show (0 for all)")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "Delete snapshots older than this")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
