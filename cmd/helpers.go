package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/riskmap/internal/config"
	"github.com/ziadkadry99/riskmap/internal/db"
	"github.com/ziadkadry99/riskmap/internal/progress"
	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/status"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `riskmap init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadRegistry loads every map file matched by the configured patterns.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg, err := registry.LoadFiles(cfg.Maps)
	if err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no maps found matching %v", cfg.Maps)
	}
	return reg, nil
}

// serviceNowClient returns a direct ITSM client, or nil when no instance is
// configured.
func serviceNowClient(cfg *config.Config) status.Client {
	if cfg.ServiceNow.Instance == "" {
		return nil
	}
	return status.NewServiceNowClient(status.ServiceNowConfig{
		Instance: cfg.ServiceNow.Instance,
		Username: cfg.ServiceNow.Username,
		Password: cfg.ServiceNow.Password,
		Table:    cfg.ServiceNow.Table,
		Timeout:  cfg.ServiceNowTimeout(),
	})
}

// statusClient picks the client used by the CLI and the viewer: a riskmap
// server when status.proxy_url is set, otherwise ServiceNow directly.
// It returns nil when neither is configured.
func statusClient(cfg *config.Config) status.Client {
	if cfg.Status.ProxyURL != "" {
		return status.NewProxyClient(cfg.Status.ProxyURL, cfg.StatusTimeout())
	}
	return serviceNowClient(cfg)
}

// newFetcher wraps client in a fan-out fetcher configured from cfg.
func newFetcher(cfg *config.Config, client status.Client, logger *slog.Logger, opts ...status.Option) *status.Fetcher {
	base := []status.Option{
		status.WithLimit(cfg.Status.MaxConcurrency),
		status.WithTimeout(cfg.StatusTimeout()),
		status.WithLogger(logger),
	}
	return status.NewFetcher(client, append(base, opts...)...)
}

// openDatabase opens the snapshot database under the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// statusReporterOption shows a progress bar on stderr while statuses load.
func statusReporterOption() status.Option {
	return status.WithReporter(progress.NewReporter("Fetching statuses"))
}
