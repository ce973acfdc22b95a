package config

// LogLevel is the minimum level written to the log.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level riskmap configuration, corresponding to .riskmap.yml.
type Config struct {
	Maps       []string         `yaml:"maps" koanf:"maps"`
	DataDir    string           `yaml:"data_dir" koanf:"data_dir"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	ServiceNow ServiceNowConfig `yaml:"servicenow" koanf:"servicenow"`
	Status     StatusConfig     `yaml:"status" koanf:"status"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Watch           bool `yaml:"watch" koanf:"watch"`
}

// ServiceNowConfig holds the ITSM connection used by the status proxy.
type ServiceNowConfig struct {
	Instance       string `yaml:"instance" koanf:"instance"`
	Username       string `yaml:"username" koanf:"username"`
	Password       string `yaml:"password,omitempty" koanf:"password"`
	Table          string `yaml:"table" koanf:"table"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// StatusConfig controls how clients fetch statuses.
type StatusConfig struct {
	// ProxyURL points at a riskmap server. When empty, clients talk to
	// ServiceNow directly, or run offline if that is not configured either.
	ProxyURL       string `yaml:"proxy_url" koanf:"proxy_url"`
	MaxConcurrency int    `yaml:"max_concurrency" koanf:"max_concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      LogLevel `yaml:"level" koanf:"level"`
	File       string   `yaml:"file" koanf:"file"`
	MaxSizeMB  int      `yaml:"max_size_mb" koanf:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups" koanf:"max_backups"`
	MaxAgeDays int      `yaml:"max_age_days" koanf:"max_age_days"`
}
