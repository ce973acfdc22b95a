package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "RISKMAP_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (RISKMAP_*). A double underscore separates
// nested keys: RISKMAP_SERVICENOW__PASSWORD sets servicenow.password.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogLevels is the set of recognized log levels.
var validLogLevels = map[LogLevel]bool{
	LogDebug: true,
	LogInfo:  true,
	LogWarn:  true,
	LogError: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if len(c.Maps) == 0 {
		return fmt.Errorf("maps must list at least one file pattern")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.ServiceNow.Instance != "" {
		if !strings.HasPrefix(c.ServiceNow.Instance, "http://") && !strings.HasPrefix(c.ServiceNow.Instance, "https://") {
			return fmt.Errorf("servicenow.instance must be an http(s) URL")
		}
		if c.ServiceNow.Username == "" {
			return fmt.Errorf("servicenow.username is required when servicenow.instance is set")
		}
	}
	if c.ServiceNow.TimeoutSeconds < 0 || c.Status.TimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}

	if c.Status.MaxConcurrency < 0 {
		return fmt.Errorf("status.max_concurrency must be non-negative")
	}

	if c.Log.Level != "" && !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}

	return nil
}

// DatabasePath returns the status snapshot database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "riskmap.db")
}

// StatusTimeout returns the per-request timeout for status fetches.
func (c *Config) StatusTimeout() time.Duration {
	return time.Duration(c.Status.TimeoutSeconds) * time.Second
}

// ServiceNowTimeout returns the timeout for ServiceNow requests.
func (c *Config) ServiceNowTimeout() time.Duration {
	return time.Duration(c.ServiceNow.TimeoutSeconds) * time.Second
}
