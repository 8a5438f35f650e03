package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/petrefiedthunder/mcp-fda/internal/appid"
	"github.com/petrefiedthunder/mcp-fda/internal/config"
	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/observability"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string

	// settings is created before any init() so subcommands can bind flags.
	settings = newSettings()

	// appConfig is decoded from settings once flags are parsed.
	appConfig *config.Config

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the application identity.
func GetAppIdentity() *appidentity.Identity {
	return appid.Get()
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appid.Identity.BinaryName,
	Short: appid.Identity.Description,
	Long: fmt.Sprintf(`%s - %s

Run "serve" to expose the openFDA tools to an MCP host, or "call" to invoke a
single tool from the shell.`, appid.Identity.BinaryName, appid.Identity.Description),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Disable global telemetry early so config loading never emits metrics.
	// The http transport initializes the Prometheus exporter later.
	disabledConfig := &telemetry.Config{Enabled: false}
	if sys, err := telemetry.NewSystem(disabledConfig); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $XDG_CONFIG_HOME/%s/config.yaml)", appid.Identity.ConfigName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	_ = settings.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func newSettings() *viper.Viper {
	v, err := config.New()
	if err != nil {
		ExitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize configuration", err)
	}
	return v
}

// initConfig reads the config file and environment, then validates the result.
func initConfig() {
	observability.InitCLILogger(appid.Identity.BinaryName, verbose)
	logger := observability.CLILogger

	used, err := readConfigFile(settings, cfgFile)
	if err != nil {
		ExitWithCode(logger, foundry.ExitConfigInvalid, "Failed to read config file",
			errwrap.WrapConfigInvalid(context.Background(), err, "config file unreadable"))
	}
	if used != "" {
		logger.Debug("Using config file", zap.String("path", used))
	} else {
		logger.Debug("No config file found, using defaults and environment variables")
	}

	if verbose && strings.TrimSpace(logLevel) == "" {
		settings.Set("logging.level", "debug")
	}

	cfg, err := config.Load(settings)
	if err != nil {
		ExitWithCode(logger, foundry.ExitConfigInvalid, "Invalid configuration",
			errwrap.WrapConfigInvalid(context.Background(), err, "configuration rejected"))
	}
	appConfig = cfg
}

// readConfigFile loads an explicit config file, or searches the XDG config
// directory and ./config for config.yaml. A missing file in the search path
// is not an error. It returns the path that was read, if any.
func readConfigFile(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		if dir := config.DefaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && explicit == "" {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

// currentConfig returns the loaded configuration, falling back to defaults
// when a command runs without initConfig (tests).
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	v, err := config.New()
	if err != nil {
		return nil, err
	}
	return config.Load(v)
}
