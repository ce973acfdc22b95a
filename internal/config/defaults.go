package config

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".riskmap.yml"

// DefaultMaps are the glob patterns searched for map files by default.
var DefaultMaps = []string{"maps/**/*.yml", "maps/**/*.yaml"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Maps:    append([]string(nil), DefaultMaps...),
		DataDir: ".riskmap",
		Server: ServerConfig{
			Port: 3001,
		},
		ServiceNow: ServiceNowConfig{
			Table:          "cmdb_ci_application",
			TimeoutSeconds: 10,
		},
		Status: StatusConfig{
			MaxConcurrency: 16,
			TimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level:      LogInfo,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
