package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/petrefiedthunder/mcp-fda/internal/requestid"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds ids accepted from clients.
const maxRequestIDLength = 128

// RequestID assigns every request an id, reusing chi's or a well-formed
// inbound X-Request-ID, and echoes it on the response. The id follows the
// request into tool calls, where it becomes the error correlation id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = acceptRequestID(r.Header.Get(RequestIDHeader))
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

// acceptRequestID returns id if it is short and printable ASCII, else "".
// Ids end up in logs and response headers.
func acceptRequestID(id string) string {
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return id
}

// WithRequestID stores a request ID on ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return requestid.With(ctx, requestID)
}

// GetRequestID returns the id stored by RequestID or WithRequestID, falling
// back to chi's request id.
func GetRequestID(ctx context.Context) string {
	if requestID := requestid.From(ctx); requestID != "" {
		return requestID
	}
	return middleware.GetReqID(ctx)
}
