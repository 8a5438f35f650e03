// Package appid holds the application identity shared by the CLI, config
// loader, telemetry and the MCP implementation info.
package appid

import (
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"
)

// Identity is compiled in so the stdio server has no dependency on the
// working directory a host launches it from.
var Identity = appidentity.Identity{
	BinaryName:  "mcp-fda",
	EnvPrefix:   "MCP_FDA_",
	ConfigName:  "mcp-fda",
	Description: "MCP server exposing openFDA drug, device and food datasets as tools",
}

// Get returns a copy of the application identity.
func Get() *appidentity.Identity {
	identity := Identity
	return &identity
}

// TelemetryNamespace returns the metric namespace, e.g. "mcp_fda".
func TelemetryNamespace() string {
	return strings.ReplaceAll(strings.ToLower(Identity.BinaryName), "-", "_")
}
