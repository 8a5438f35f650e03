package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/observability"
	"github.com/petrefiedthunder/mcp-fda/internal/server/handlers"
)

const defaultProbeTimeout = 5 * time.Second

var (
	healthURL     string
	healthTimeout time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long: `Run a self-health check: configuration, tool catalog and dispatcher wiring.

With --url, query the /health endpoint of a running http transport instead.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.CLILogger
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if healthURL != "" {
			status, err := probeRemoteHealth(ctx, healthURL, healthTimeout)
			if err != nil {
				return err
			}
			logger.Info("Remote health check passed", zap.String("url", healthURL), zap.String("status", status))
			return nil
		}

		cfg, err := currentConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "configuration rejected")
		}
		logger.Info("✅ Configuration valid", zap.String("transport", cfg.Transport))

		if err := checkToolCatalog(ctx); err != nil {
			return err
		}
		logger.Info("✅ Tool catalog ready")

		if _, err := newToolService(cfg, logger); err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "dispatcher configuration rejected")
		}
		logger.Info("✅ Dispatcher configured", zap.Duration("min_interval", cfg.OpenFDA.MinInterval))

		logger.Info("✅ All health checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthURL, "url", "", "base URL of a running server, e.g. http://localhost:8080")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", defaultProbeTimeout, "remote health check timeout")
}

// probeRemoteHealth GETs <base>/health and returns the reported status.
func probeRemoteHealth(ctx context.Context, base string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := strings.TrimRight(base, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errwrap.NewInvalidInputError(fmt.Sprintf("invalid health url %q: %v", base, err))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errwrap.WrapExternalService(ctx, err, "health endpoint unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", errwrap.WrapExternalService(ctx, err, "failed to read health response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errwrap.NewExternalServiceError(fmt.Sprintf("health endpoint returned %s", resp.Status))
	}

	var health handlers.HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return "", errwrap.WrapExternalService(ctx, err, "health response is not JSON")
	}
	return health.Status, nil
}
