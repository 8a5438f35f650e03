package appid

import (
	"strings"
	"testing"
)

func TestIdentityFields(t *testing.T) {
	identity := Get()
	if identity.BinaryName == "" {
		t.Fatalf("expected BinaryName to be set")
	}
	if !strings.HasSuffix(identity.EnvPrefix, "_") {
		t.Fatalf("expected EnvPrefix to end with underscore, got %q", identity.EnvPrefix)
	}
	if identity.ConfigName == "" {
		t.Fatalf("expected ConfigName to be set")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	identity := Get()
	identity.BinaryName = "changed"

	if Identity.BinaryName == "changed" {
		t.Fatalf("Get must not expose the shared identity")
	}
}

func TestTelemetryNamespace(t *testing.T) {
	if got := TelemetryNamespace(); got != "mcp_fda" {
		t.Fatalf("expected mcp_fda, got %q", got)
	}
}
