package config

import (
	"time"
)

// Config represents the complete application configuration.
// Values are layered: built-in defaults, then the optional YAML config file,
// then MCP_FDA_* environment variables and flag bindings.
type Config struct {
	Transport string        `mapstructure:"transport"`
	Server    ServerConfig  `mapstructure:"server"`
	OpenFDA   OpenFDAConfig `mapstructure:"openfda"`
	Logging   LoggingConfig `mapstructure:"logging"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
	Health    HealthConfig  `mapstructure:"health"`
	Debug     DebugConfig   `mapstructure:"debug"`
}

// ServerConfig contains HTTP transport configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// OpenFDAConfig controls the upstream client and its throttle.
type OpenFDAConfig struct {
	BaseURL string `mapstructure:"base_url"`

	// APIKey is optional; it is also read from OPENFDA_API_KEY.
	APIKey    string `mapstructure:"api_key"`
	UserAgent string `mapstructure:"user_agent"`

	// MinInterval is the minimum spacing between two dispatches.
	MinInterval time.Duration `mapstructure:"min_interval"`

	// Timeout bounds one upstream call.
	Timeout time.Duration `mapstructure:"timeout"`

	// MeasureFrom is "issue" or "completion".
	MeasureFrom string `mapstructure:"measure_from"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: simple, structured
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether metrics are exposed (http transport only)
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format)
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug configuration
type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
