package config

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Maps, DefaultMaps) {
		t.Errorf("expected default maps %v, got %v", DefaultMaps, cfg.Maps)
	}
	if cfg.ServiceNow.Table != "cmdb_ci_application" {
		t.Errorf("expected default table cmdb_ci_application, got %q", cfg.ServiceNow.Table)
	}
	if cfg.Log.Level != LogInfo {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}

	cfg.Maps[0] = "changed"
	if DefaultMaps[0] == "changed" {
		t.Error("DefaultConfig should copy DefaultMaps")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.riskmap.yml")

	original := DefaultConfig()
	original.Maps = []string{"a/*.yml", "b/**/*.yaml"}
	original.Server.Port = 8080
	original.Server.Watch = true
	original.ServiceNow.Instance = "https://example.service-now.com"
	original.ServiceNow.Username = "svc"
	original.Status.MaxConcurrency = 4
	original.Log.File = "riskmap.log"

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("RISKMAP_SERVER__PORT", "9000")
	t.Setenv("RISKMAP_SERVICENOW__PASSWORD", "s3cret")
	t.Setenv("RISKMAP_DATA_DIR", "/var/lib/riskmap")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("server.port override failed: got %d", loaded.Server.Port)
	}
	if loaded.ServiceNow.Password != "s3cret" {
		t.Errorf("servicenow.password override failed: got %q", loaded.ServiceNow.Password)
	}
	if loaded.DataDir != "/var/lib/riskmap" {
		t.Errorf("data_dir override failed: got %q", loaded.DataDir)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RISKMAP_SERVER__PORT", "server.port"},
		{"RISKMAP_DATA_DIR", "data_dir"},
		{"RISKMAP_STATUS__MAX_CONCURRENCY", "status.max_concurrency"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no maps", func(c *Config) { c.Maps = nil }, true},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"instance without scheme", func(c *Config) {
			c.ServiceNow.Instance = "example.service-now.com"
			c.ServiceNow.Username = "svc"
		}, true},
		{"instance without user", func(c *Config) { c.ServiceNow.Instance = "https://example.service-now.com" }, true},
		{"instance with user", func(c *Config) {
			c.ServiceNow.Instance = "https://example.service-now.com"
			c.ServiceNow.Username = "svc"
		}, false},
		{"negative concurrency", func(c *Config) { c.Status.MaxConcurrency = -1 }, true},
		{"negative timeout", func(c *Config) { c.Status.TimeoutSeconds = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "data"
	if got := cfg.DatabasePath(); got != filepath.Join("data", "riskmap.db") {
		t.Errorf("DatabasePath = %q", got)
	}
	if got := cfg.StatusTimeout(); got != 10*time.Second {
		t.Errorf("StatusTimeout = %v", got)
	}
	if got := cfg.ServiceNowTimeout(); got != 10*time.Second {
		t.Errorf("ServiceNowTimeout = %v", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"maps/**/*.yml", []string{"maps/**/*.yml"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		if got := splitAndTrim(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
