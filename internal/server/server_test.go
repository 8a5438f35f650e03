package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/server/handlers"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

type staticDispatcher struct{}

func (staticDispatcher) Get(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{"results":[{"term":"HEADACHE","count":7}]}`), nil
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := New(Options{Host: "127.0.0.1"})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestServerHealthRoutes(t *testing.T) {
	health := handlers.NewHealthManager("1.0.0")
	health.RegisterChecker("tools", handlers.CheckerFunc(func(ctx context.Context) error {
		if len(tools.Catalog()) == 0 {
			return errors.New("no tools registered")
		}
		return nil
	}))
	srv := New(Options{Host: "127.0.0.1", Health: health})

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/health/startup", "/version"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), path)
	}
}

func TestServerWithoutMCPHasNoEndpoint(t *testing.T) {
	srv := New(Options{Host: "127.0.0.1"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, MCPPath, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerServesMCPOverStreamableHTTP(t *testing.T) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "mcp-fda", Version: "test"}, nil)
	(&tools.Service{Dispatcher: staticDispatcher{}}).Register(mcpServer)

	srv := New(Options{Host: "127.0.0.1", MCP: mcpServer})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + MCPPath}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	listed, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, listed.Tools, len(tools.Catalog()))

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: tools.NameCountField,
		Arguments: map[string]any{
			"endpoint":   "/drug/event",
			"countField": "patient.reaction.reactionmeddrapt.exact",
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"results":[{"term":"HEADACHE","count":7}]}`, text.Text)
}
