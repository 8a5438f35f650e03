package metrics

import "strconv"

// Error metric names
const (
	ErrorsTotalName      = "errors_total"
	PanicsTotalName      = "panics_total"
	ErrorsByEndpointName = "errors_by_endpoint"
	ToolErrorsTotalName  = "tool_errors_total"
)

// RecordError records an HTTP error response by envelope code and status.
func RecordError(errorCode string, httpStatus int) {
	counter(ErrorsTotalName, labels{"error_code": errorCode, "http_status": strconv.Itoa(httpStatus)})
}

// RecordPanic records a recovered handler panic.
func RecordPanic() {
	counter(PanicsTotalName, nil)
}

// RecordErrorByEndpoint records an error against a route label.
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	counter(ErrorsByEndpointName, labels{"endpoint": endpoint, "error_code": errorCode})
}

// RecordToolError records a failed tool invocation by error code.
func RecordToolError(tool string, errorCode string) {
	counter(ToolErrorsTotalName, labels{"tool": tool, "error_code": errorCode})
}
