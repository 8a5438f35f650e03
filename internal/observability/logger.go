// Package observability owns the process loggers and the telemetry system.
// Every sink writes to stderr: stdout carries tool output for the CLI and the
// MCP protocol stream for the stdio transport.
package observability

import (
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
)

var (
	// CLILogger is used for CLI commands (SIMPLE profile)
	CLILogger *logging.Logger

	// ServerLogger is used by the MCP server (STRUCTURED profile)
	ServerLogger *logging.Logger
)

func stderrSink(format string) logging.SinkConfig {
	return logging.SinkConfig{
		Type:   "console",
		Format: format,
		Console: &logging.ConsoleSinkConfig{
			Stream:   "stderr",
			Colorize: false,
		},
	}
}

func mustLogger(config *logging.LoggerConfig, what string) *logging.Logger {
	logger, err := logging.New(config)
	if err != nil {
		exitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize "+what, err)
	}
	return logger
}

// InitCLILogger initializes the human-readable CLI logger. verbose lowers the
// level to DEBUG.
func InitCLILogger(serviceName string, verbose bool) {
	logger := mustLogger(&logging.LoggerConfig{
		Profile:      logging.ProfileSimple,
		DefaultLevel: "INFO",
		Service:      serviceName,
		Environment:  "cli",
		Sinks:        []logging.SinkConfig{stderrSink("console")},
	}, "CLI logger")

	if verbose {
		logger.SetLevel(logging.DEBUG)
	}
	CLILogger = logger
}

// InitServerLogger initializes the JSON server logger used while serving.
// The optional namespace becomes a static field on every line.
func InitServerLogger(serviceName string, logLevel string, namespace ...string) {
	staticFields := make(map[string]any)
	if len(namespace) > 0 && namespace[0] != "" {
		staticFields["namespace"] = namespace[0]
	}

	ServerLogger = mustLogger(&logging.LoggerConfig{
		Profile:      logging.ProfileStructured,
		DefaultLevel: parseLogLevel(logLevel),
		Service:      serviceName,
		Environment:  "production",
		StaticFields: staticFields,
		Middleware: []logging.MiddlewareConfig{
			{
				Name:    "correlation",
				Enabled: true,
				Order:   100,
				Config:  make(map[string]any),
			},
		},
		Sinks:            []logging.SinkConfig{stderrSink("json")},
		EnableCaller:     true,
		EnableStacktrace: true,
	}, "server logger")
}

// Logger returns the server logger when serving, otherwise the CLI logger.
func Logger() *logging.Logger {
	if ServerLogger != nil {
		return ServerLogger
	}
	return CLILogger
}

// parseLogLevel maps a config level onto a gofulmen severity. Unknown values
// are INFO.
func parseLogLevel(levelStr string) string {
	switch level := strings.ToLower(strings.TrimSpace(levelStr)); level {
	case "trace", "debug", "info", "warn", "error":
		return strings.ToUpper(level)
	case "warning":
		return "WARN"
	default:
		return "INFO"
	}
}

// exitWithCodeStderr reports a logger initialization failure, which happens
// before any logger exists.
func exitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	if info, ok := foundry.GetExitCodeInfo(exitCode); ok {
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
		os.Exit(info.Code)
	}
	os.Exit(int(exitCode))
}
