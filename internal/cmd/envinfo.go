package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"

	"github.com/petrefiedthunder/mcp-fda/internal/config"
	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display the effective configuration, version and runtime information. The API key is never printed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration rejected")
		}
		writeEnvInfo(cmd.OutOrStdout(), cfg, settings.ConfigFileUsed())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

func writeEnvInfo(w io.Writer, cfg *config.Config, configFile string) {
	identity := GetAppIdentity()
	version := crucible.GetVersion()

	if configFile == "" {
		configFile = "(none, default " + config.DefaultConfigPath() + ")"
	}
	apiKey := "(not set)"
	if cfg.OpenFDA.APIKey != "" {
		apiKey = "(set)"
	}

	fmt.Fprintln(w, "Application:")
	fmt.Fprintf(w, "  Name:          %s\n", identity.BinaryName)
	fmt.Fprintf(w, "  Version:       %s\n", versionInfo.Version)
	fmt.Fprintf(w, "  Commit:        %s\n", versionInfo.Commit)
	fmt.Fprintf(w, "  Gofulmen:      %s\n", version.Gofulmen)
	fmt.Fprintf(w, "  Crucible:      %s\n", version.Crucible)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Runtime:")
	fmt.Fprintf(w, "  Go Version:    %s\n", runtime.Version())
	fmt.Fprintf(w, "  GOOS/GOARCH:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "openFDA:")
	fmt.Fprintf(w, "  Base URL:      %s\n", cfg.OpenFDA.BaseURL)
	fmt.Fprintf(w, "  API Key:       %s\n", apiKey)
	fmt.Fprintf(w, "  User-Agent:    %s\n", cfg.OpenFDA.UserAgent)
	fmt.Fprintf(w, "  Min Interval:  %s (measured from %s)\n", cfg.OpenFDA.MinInterval, cfg.OpenFDA.MeasureFrom)
	fmt.Fprintf(w, "  Timeout:       %s\n", cfg.OpenFDA.Timeout)
	fmt.Fprintf(w, "  Tools:         %d\n", len(tools.Catalog()))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server:")
	fmt.Fprintf(w, "  Transport:     %s\n", cfg.Transport)
	fmt.Fprintf(w, "  Listen:        %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(w, "  Metrics:       %t (port %d)\n", cfg.Metrics.Enabled, cfg.Metrics.Port)
	fmt.Fprintf(w, "  Log Level:     %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Config File:   %s\n", configFile)
}
