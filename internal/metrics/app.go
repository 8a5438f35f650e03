// Package metrics names and records the server's Prometheus metrics. Every
// recorder is a no-op until observability.InitMetrics has run, so the stdio
// transport and the CLI pay nothing for them.
package metrics

import (
	"time"

	"github.com/petrefiedthunder/mcp-fda/internal/observability"
)

// Upstream dispatch and tool metrics
const (
	DispatchTotal        = "openfda_dispatch_total"
	DispatchDuration     = "openfda_dispatch_duration_ms"
	ThrottleWaitDuration = "openfda_throttle_wait_ms"

	ToolCallsTotal   = "tool_calls_total"
	ToolCallDuration = "tool_call_duration_ms"

	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	ServerStartTime = "app_server_start_time_seconds"
)

type labels = map[string]string

func counter(name string, l labels) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Counter(name, 1, l)
	}
}

func histogram(name string, d time.Duration, l labels) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Histogram(name, d, l)
	}
}

func gauge(name string, value float64, l labels) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Gauge(name, value, l)
	}
}

func status(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

// RecordDispatch records one upstream call. outcome is "success" or the error
// class (transport, upstream_http, malformed).
func RecordDispatch(endpoint string, outcome string, duration time.Duration) {
	l := labels{"endpoint": endpoint, "outcome": outcome}
	counter(DispatchTotal, l)
	histogram(DispatchDuration, duration, l)
}

// RecordThrottleWait records how long a dispatch was held back by the
// minimum interval.
func RecordThrottleWait(wait time.Duration) {
	histogram(ThrottleWaitDuration, wait, nil)
}

// RecordToolCall records a tool invocation.
func RecordToolCall(tool string, success bool, duration time.Duration) {
	counter(ToolCallsTotal, labels{"tool": tool, "status": status(success, "success", "failure")})
	histogram(ToolCallDuration, duration, labels{"tool": tool})
}

// RecordHealthCheck records a health check execution.
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	counter(HealthCheckTotal, labels{"check": checkName, "status": status(healthy, "healthy", "unhealthy")})
	histogram(HealthCheckDuration, duration, labels{"check": checkName})
}

// SetServerStartTime records the server start time (Unix seconds).
func SetServerStartTime(timestamp int64) {
	gauge(ServerStartTime, float64(timestamp), nil)
}
