package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/riskmap/internal/mcp"
	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/status"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing component search, dependency paths and map trees to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Stdout carries the protocol; logs go to stderr or the log file.
		logs := SetupLogger(cfg.Log, verbose)
		defer logs.Close()

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		var opts []mcpserver.Option
		if client := statusClient(cfg); client != nil {
			opts = append(opts, mcpserver.WithStatuses(newFetcher(cfg, client, logs.Logger)))
		}
		if _, err := os.Stat(cfg.DatabasePath()); err == nil {
			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			opts = append(opts, mcpserver.WithHistory(status.NewStore(database)))
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "riskmap MCP server started on stdio (maps=%d, components=%d)\n", reg.Len(), reg.ComponentCount())

		srv := mcpserver.NewServer(registry.NewHolder(reg), opts...)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
