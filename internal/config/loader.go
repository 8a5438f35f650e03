// Package config provides centralized configuration management for mcp-fda.
// Defaults are registered on a viper instance, overlaid by an optional YAML
// file and MCP_FDA_* environment variables, then decoded into Config.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/petrefiedthunder/mcp-fda/internal/appid"
	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	// LegacyAPIKeyEnv is the unprefixed key variable openFDA tooling uses.
	LegacyAPIKeyEnv = "OPENFDA_API_KEY"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults registers default configuration values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("transport", TransportStdio)

	// HTTP transport defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Upstream defaults
	v.SetDefault("openfda.base_url", openfda.DefaultBaseURL)
	v.SetDefault("openfda.api_key", "")
	v.SetDefault("openfda.user_agent", openfda.DefaultUserAgent)
	v.SetDefault("openfda.min_interval", openfda.DefaultMinInterval.String())
	v.SetDefault("openfda.timeout", openfda.DefaultTimeout.String())
	v.SetDefault("openfda.measure_from", string(openfda.MeasureFromIssue))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)

	// Debug defaults
	v.SetDefault("debug.enabled", false)
}

// BindEnv maps MCP_FDA_<SECTION>_<KEY> variables onto config keys and keeps
// the unprefixed OPENFDA_API_KEY working.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(strings.TrimSuffix(appid.Identity.EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v.BindEnv("openfda.api_key", appid.Identity.EnvPrefix+"OPENFDA_API_KEY", LegacyAPIKeyEnv)
}

// New returns a viper instance with defaults and environment bindings.
func New() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	return v, nil
}

// Load decodes the settings held by v into a validated Config and makes it
// the current configuration. A nil v uses the global viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	cfg.OpenFDA.APIKey = strings.TrimSpace(cfg.OpenFDA.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("transport: unsupported value %q (want stdio or http)", c.Transport))
	}

	if parsed, err := url.Parse(c.OpenFDA.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("openfda.base_url: %q is not an absolute URL", c.OpenFDA.BaseURL))
	}
	if c.OpenFDA.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("openfda.min_interval: must not be negative, got %s", c.OpenFDA.MinInterval))
	}
	if c.OpenFDA.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("openfda.timeout: must be positive, got %s", c.OpenFDA.Timeout))
	}
	if _, err := openfda.ParseMeasureMode(c.OpenFDA.MeasureFrom); err != nil {
		errs = append(errs, fmt.Errorf("openfda.measure_from: %w", err))
	}
	if c.Transport == TransportHTTP && (c.Server.Port < 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port: %d is out of range", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir returns the XDG-compliant config directory for the app.
func DefaultConfigDir() string {
	return gfconfig.GetAppConfigDir(appid.Identity.ConfigName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := DefaultConfigDir()
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}
