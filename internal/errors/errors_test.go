package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
	"github.com/petrefiedthunder/mcp-fda/internal/server/middleware"
)

func TestFromDispatch(t *testing.T) {
	ctx := middleware.WithRequestID(context.Background(), "call-1")

	cases := []struct {
		name   string
		err    error
		code   string
		status int
		key    string
	}{
		{
			name:   "validation",
			err:    &openfda.ValidationError{Field: "limit", Reason: "must be between 1 and 100"},
			code:   CodeValidationFailed,
			status: http.StatusBadRequest,
			key:    "field",
		},
		{
			name:   "upstream",
			err:    &openfda.UpstreamHTTPError{StatusCode: 404, Status: "Not Found", Body: "{}"},
			code:   CodeExternalService,
			status: http.StatusBadGateway,
			key:    "upstream_status",
		},
		{
			name:   "upstream throttled",
			err:    &openfda.UpstreamHTTPError{StatusCode: 429, Status: "Too Many Requests", RetryAfter: time.Minute},
			code:   CodeRateLimited,
			status: http.StatusTooManyRequests,
			key:    "retry_after",
		},
		{
			name:   "malformed",
			err:    &openfda.MalformedResponseError{Snippet: "<html>"},
			code:   CodeDataProcessing,
			status: http.StatusBadGateway,
			key:    "body_snippet",
		},
		{
			name:   "timeout",
			err:    fmt.Errorf("call: %w", &openfda.TransportError{URL: "https://api.fda.gov/drug/event.json", Err: context.DeadlineExceeded}),
			code:   CodeTimeout,
			status: http.StatusGatewayTimeout,
			key:    "url",
		},
		{
			name:   "connection",
			err:    &openfda.TransportError{Err: fmt.Errorf("connection refused")},
			code:   CodeExternalService,
			status: http.StatusBadGateway,
			key:    "url",
		},
		{
			name:   "unknown",
			err:    fmt.Errorf("boom"),
			code:   CodeInternal,
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			envelope := FromDispatch(ctx, tc.err)
			require.NotNil(t, envelope)
			assert.Equal(t, tc.code, envelope.Code)
			assert.Equal(t, tc.err.Error(), envelope.Message)
			assert.Equal(t, "call-1", envelope.CorrelationID)
			assert.Equal(t, tc.status, HTTPStatusFromEnvelope(envelope))
			if tc.key != "" {
				assert.Contains(t, envelope.Context, tc.key)
			}
		})
	}
}

func TestEnsureEnvelope(t *testing.T) {
	env := EnsureEnvelope(nil)
	assert.Equal(t, CodeInternal, env.Code)

	wrapped := EnsureEnvelope(fmt.Errorf("disk full"))
	assert.Equal(t, "disk full", wrapped.Context["wrapped_error"])

	original := NewNotFoundError("no such route")
	assert.Same(t, original, EnsureEnvelope(original))
}

func TestEnsureCorrelationID(t *testing.T) {
	env := EnsureCorrelationID(NewInternalError("x"), context.Background())
	assert.Contains(t, env.CorrelationID, "fallback-")

	env = EnsureCorrelationID(NewInternalError("x"), middleware.WithRequestID(context.Background(), "req-9"))
	assert.Equal(t, "req-9", env.CorrelationID)
}

func TestRespondWithEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req = req.WithContext(middleware.WithRequestID(req.Context(), "req-7"))
	rec := httptest.NewRecorder()

	RespondWithEnvelope(rec, req, NewNotFoundError("route not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeNotFound, body.Error.Code)
	assert.Equal(t, "route not found", body.Error.Message)
	assert.Equal(t, "req-7", body.Error.RequestID)
}

func TestWrapExternalService(t *testing.T) {
	env := WrapExternalService(context.Background(), fmt.Errorf("dns failure"), "upstream unreachable")
	assert.Equal(t, CodeExternalService, env.Code)
	assert.Equal(t, "dns failure", env.Context["wrapped_error"])
	assert.NotEmpty(t, env.CorrelationID)
}
