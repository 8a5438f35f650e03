package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/petrefiedthunder/mcp-fda/internal/observability"
)

// MCPSessionHeader carries the streamable HTTP session id.
const MCPSessionHeader = "Mcp-Session-Id"

// knownPaths maps unrouted paths onto low-cardinality endpoint labels.
var knownPaths = map[string]string{
	"/health":         "/health/*",
	"/health/live":    "/health/*",
	"/health/ready":   "/health/*",
	"/health/startup": "/health/*",
	"/version":        "/version",
	"/metrics":        "/metrics",
	"/mcp":            "/mcp",
	"/":               "/",
}

// responseWriter records status and size. Flush is forwarded because MCP
// responses may be streamed as server-sent events.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// EndpointLabel is the metrics endpoint label for r: the chi route pattern,
// else a knownPaths entry, so raw paths never become label values.
func EndpointLabel(r *http.Request) string {
	if pattern := chi.RouteContext(r.Context()).RoutePattern(); pattern != "" {
		return pattern
	}
	if label, ok := knownPaths[r.URL.Path]; ok {
		return label
	}
	return "/unknown"
}

// requestObservation is one finished request.
type requestObservation struct {
	method       string
	endpoint     string
	status       int
	duration     time.Duration
	requestSize  int64
	responseSize int64
}

func (o requestObservation) emit() {
	sys := observability.TelemetrySystem
	labels := map[string]string{
		"method":   o.method,
		"endpoint": o.endpoint,
		"status":   strconv.Itoa(o.status),
	}
	sizeLabels := map[string]string{
		"method":   o.method,
		"endpoint": o.endpoint,
	}

	_ = sys.Counter("http_requests_total", 1, labels)
	_ = sys.Histogram("http_request_duration_ms", o.duration, labels)
	_ = sys.Gauge("http_request_size_bytes", float64(o.requestSize), sizeLabels)
	_ = sys.Gauge("http_response_size_bytes", float64(o.responseSize), sizeLabels)

	if o.status >= http.StatusBadRequest {
		errorType := "client_error"
		if o.status >= http.StatusInternalServerError {
			errorType = "server_error"
		}
		_ = sys.Counter("http_errors_total", 1, map[string]string{
			"method":     o.method,
			"endpoint":   o.endpoint,
			"status":     strconv.Itoa(o.status),
			"error_type": errorType,
		})
	}
}

// RequestMetrics records Prometheus request metrics and logs each request with
// its request id and, for /mcp, the MCP session id.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if observability.TelemetrySystem == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		obs := requestObservation{
			method:       r.Method,
			endpoint:     EndpointLabel(r),
			status:       wrapped.statusCode,
			duration:     time.Since(start),
			requestSize:  contentLength(r),
			responseSize: wrapped.bytesWritten,
		}
		obs.emit()

		if logger := observability.ServerLogger; logger != nil {
			fields := []zap.Field{
				zap.String("method", obs.method),
				zap.String("path", r.URL.Path),
				zap.String("endpoint", obs.endpoint),
				zap.Int("status", obs.status),
				zap.Duration("duration", obs.duration),
				zap.Int64("request_size", obs.requestSize),
				zap.Int64("response_size", obs.responseSize),
				zap.String("request_id", GetRequestID(r.Context())),
			}
			// The session id is set on the response for the initialize call.
			session := r.Header.Get(MCPSessionHeader)
			if session == "" {
				session = wrapped.Header().Get(MCPSessionHeader)
			}
			if session != "" {
				fields = append(fields, zap.String("mcp_session", session))
			}
			logger.Info("HTTP request completed", fields...)
		}
	})
}

func contentLength(r *http.Request) int64 {
	if r.ContentLength > 0 {
		return r.ContentLength
	}
	if header := r.Header.Get("Content-Length"); header != "" {
		if size, err := strconv.ParseInt(header, 10, 64); err == nil {
			return size
		}
	}
	return 0
}
