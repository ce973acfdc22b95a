package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/server"
	"github.com/ziadkadry99/riskmap/internal/status"
)

var (
	serverPort  int
	serverWatch bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the riskmap HTTP server",
	Long: `Starts the riskmap server: the map browsing API, the component search API
and the /status/{component} proxy in front of ServiceNow. Every status answered
by the proxy is recorded in the snapshot database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("watch") {
			cfg.Server.Watch = serverWatch
		}

		logs := SetupLogger(cfg.Log, verbose)
		defer logs.Close()
		logger := logs.Logger

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}
		holder := registry.NewHolder(reg)

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store := status.NewStore(database)

		client := serviceNowClient(cfg)
		if client == nil {
			logger.Warn("servicenow.instance is not set; every status will be unknown")
			client = status.StaticClient{}
		}
		fetcher := newFetcher(cfg, client, logger, status.WithRecorder(store))

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, holder, logger)

		registry.RegisterRoutes(srv.Router(), registry.RoutesDeps{Holder: holder, Statuses: fetcher})
		status.RegisterRoutes(srv.Router(), status.RoutesDeps{Client: client, Store: store, Logger: logger})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Server.Watch {
			watcher := registry.NewWatcher(cfg.Maps, holder, logger)
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("map watcher stopped", "error", err)
				}
			}()
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "riskmap server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Maps: %d (%d components)\n", reg.Len(), reg.ComponentCount())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 3001, "Port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverWatch, "watch", false, "Reload map files when they change (overrides server.watch)")
	rootCmd.AddCommand(serverCmd)
}
