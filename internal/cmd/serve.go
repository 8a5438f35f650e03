package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrefiedthunder/mcp-fda/internal/appid"
	"github.com/petrefiedthunder/mcp-fda/internal/config"
	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/metrics"
	"github.com/petrefiedthunder/mcp-fda/internal/observability"
	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
	"github.com/petrefiedthunder/mcp-fda/internal/server"
	"github.com/petrefiedthunder/mcp-fda/internal/server/handlers"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

var (
	serverTransport string
	serverPort      int
	serverHost      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server exposing the openFDA tools.

Transports:
  stdio (default)  MCP over stdin/stdout; logs go to stderr
  http             streamable HTTP at /mcp plus /health, /version and /metrics

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit (http transport)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration rejected")
		}

		identity := GetAppIdentity()
		namespace := appid.TelemetryNamespace()
		observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, namespace)
		logger := observability.ServerLogger

		service, err := newToolService(cfg, logger)
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "dispatcher configuration rejected")
		}
		mcpServer := newMCPServer(service)

		logger.Info("Initializing MCP server",
			zap.String("service", identity.BinaryName),
			zap.String("version", versionInfo.Version),
			zap.String("transport", cfg.Transport),
			zap.String("upstream", cfg.OpenFDA.BaseURL),
			zap.Bool("api_key", cfg.OpenFDA.APIKey != ""),
			zap.Duration("min_interval", cfg.OpenFDA.MinInterval),
			zap.String("measure_from", cfg.OpenFDA.MeasureFrom),
			zap.Int("tools", len(tools.Catalog())))

		switch cfg.Transport {
		case config.TransportHTTP:
			return serveHTTP(cmd.Context(), cfg, mcpServer, logger)
		default:
			return serveStdio(cmd.Context(), mcpServer, logger)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serverTransport, "transport", "t", config.TransportStdio, "transport: stdio or http")
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "http transport host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "http transport port")

	_ = settings.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
	_ = settings.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = settings.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

// newDispatcher builds the shared upstream dispatcher from config.
func newDispatcher(cfg config.OpenFDAConfig, logger *logging.Logger) (*openfda.Dispatcher, error) {
	mode, err := openfda.ParseMeasureMode(cfg.MeasureFrom)
	if err != nil {
		return nil, err
	}
	return openfda.NewDispatcher(openfda.Options{
		UserAgent:   cfg.UserAgent,
		MinInterval: cfg.MinInterval,
		Timeout:     cfg.Timeout,
		MeasureFrom: mode,
		Logger:      logger,
	}), nil
}

// newToolService wires one dispatcher into the tool service. Every tool
// shares it, so the minimum interval holds across all of them.
func newToolService(cfg *config.Config, logger *logging.Logger) (*tools.Service, error) {
	dispatcher, err := newDispatcher(cfg.OpenFDA, logger)
	if err != nil {
		return nil, err
	}
	return &tools.Service{
		Dispatcher: dispatcher,
		BaseURL:    cfg.OpenFDA.BaseURL,
		APIKey:     cfg.OpenFDA.APIKey,
		Logger:     logger,
	}, nil
}

func newMCPServer(service *tools.Service) *mcp.Server {
	version := versionInfo.Version
	if version == "" {
		version = "dev"
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    appid.Identity.BinaryName,
		Title:   "openFDA",
		Version: version,
	}, nil)
	service.Register(mcpServer)
	return mcpServer
}

func serveStdio(parent context.Context, mcpServer *mcp.Server, logger *logging.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	signals.OnShutdown(func(context.Context) error {
		logger.Info("Stopping stdio transport")
		cancel()
		return nil
	})
	go func() {
		if err := signals.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Signal handler error", zap.Error(err))
		}
	}()

	logger.Info("Serving MCP over stdio")
	err := mcpServer.Run(ctx, &mcp.StdioTransport{})
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("Stdio session ended")
		return nil
	default:
		return errwrap.WrapInternal(parent, err, "stdio transport failed")
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, mcpServer *mcp.Server, logger *logging.Logger) error {
	identity := GetAppIdentity()

	metricsPort := 0
	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(identity.BinaryName, cfg.Metrics.Port, appid.TelemetryNamespace()); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(ctx, err, "metrics initialization failed")
		}
		metricsPort = observability.GetMetricsPort()
	}
	metrics.SetServerStartTime(time.Now().Unix())

	handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
	handlers.SetAppIdentity(identity)
	handlers.SetServiceInfo(handlers.ServiceInfo{
		Upstream:  cfg.OpenFDA.BaseURL,
		Transport: config.TransportHTTP,
		Tools:     tools.Names(),
	})

	var health *handlers.HealthManager
	if cfg.Health.Enabled {
		health = newHealthManager(cfg)
	}

	srv := server.New(server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		MCP:          mcpServer,
		Health:       health,
		MetricsPort:  metricsPort,
	})

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	stopped := make(chan struct{})

	// LIFO: the logger flush registered first runs last.
	signals.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			// Sync errors are often benign (stderr already closed)
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		defer close(stopped)
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		if err := observability.StopMetrics(); err != nil {
			logger.Warn("Failed to stop metrics exporter", zap.Error(err))
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	go func() {
		if err := signals.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	logger.Info("MCP endpoint ready",
		zap.String("url", fmt.Sprintf("http://%s%s", srv.Addr(), server.MCPPath)))

	select {
	case err := <-errChan:
		return errwrap.WrapInternal(ctx, err, "server error")
	case <-stopped:
		return nil
	}
}

// newHealthManager registers the checks /health runs.
func newHealthManager(cfg *config.Config) *handlers.HealthManager {
	hm := handlers.NewHealthManager(versionInfo.Version)
	hm.RegisterChecker("tools", handlers.CheckerFunc(checkToolCatalog))
	hm.RegisterChecker("config", handlers.CheckerFunc(func(context.Context) error {
		if err := cfg.Validate(); err != nil {
			return errwrap.NewConfigInvalidError(err.Error())
		}
		return nil
	}))
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", handlers.CheckerFunc(func(context.Context) error {
			if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
				return errwrap.NewInternalError("telemetry system not initialized")
			}
			return nil
		}))
	}
	return hm
}

// checkToolCatalog verifies every tool has a usable definition.
func checkToolCatalog(context.Context) error {
	catalog := tools.Catalog()
	if len(catalog) == 0 {
		return errwrap.NewInternalError("no tools registered")
	}
	for _, spec := range catalog {
		if spec.InputSchema() == nil {
			return errwrap.NewInternalError("tool " + spec.Name + " has no input schema")
		}
		if spec.Kind == tools.KindSearch && !spec.Endpoint.Valid() {
			return errwrap.NewInternalError("tool " + spec.Name + " has no endpoint")
		}
	}
	return nil
}
