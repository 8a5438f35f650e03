package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	apperrors "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/metrics"
	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
	"github.com/petrefiedthunder/mcp-fda/internal/requestid"
)

// Dispatcher performs a throttled GET of a fully built openFDA URL.
type Dispatcher interface {
	Get(ctx context.Context, rawURL string) (json.RawMessage, error)
}

// Service executes tool invocations against one dispatcher. The API key and
// base URL are process-wide and never come from tool arguments.
type Service struct {
	Dispatcher Dispatcher
	BaseURL    string
	APIKey     string
	Logger     *logging.Logger
}

// Execute dispatches an already validated request.
func (s *Service) Execute(ctx context.Context, req openfda.Request) (json.RawMessage, error) {
	if s.Dispatcher == nil {
		return nil, fmt.Errorf("tools: dispatcher not configured")
	}
	req.APIKey = s.APIKey

	target, err := openfda.BuildURL(s.BaseURL, req)
	if err != nil {
		return nil, err
	}
	return s.Dispatcher.Get(ctx, target)
}

// Call decodes, validates and executes one invocation of the named tool.
func (s *Service) Call(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, &openfda.ValidationError{Field: "tool", Reason: fmt.Sprintf("unknown tool %q", name)}
	}

	raw, err := json.Marshal(arguments)
	if err != nil {
		return nil, &openfda.ValidationError{Reason: "arguments are not JSON encodable: " + err.Error()}
	}
	return s.invoke(ctx, spec, raw)
}

// Register adds every catalog tool to server.
func (s *Service) Register(server *mcp.Server) {
	for _, spec := range catalog {
		server.AddTool(spec.Tool(), s.handler(spec))
	}
}

// Tool returns the MCP declaration of the tool.
func (s Spec) Tool() *mcp.Tool {
	openWorld := true
	return &mcp.Tool{
		Name:        s.Name,
		Title:       s.Title,
		Description: s.Description,
		InputSchema: s.InputSchema(),
		Annotations: &mcp.ToolAnnotations{
			Title:          s.Title,
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  &openWorld,
		},
	}
}

func (s *Service) handler(spec Spec) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}

		body, err := s.invoke(ctx, spec, raw)
		if err != nil {
			return errorResult(err), nil
		}

		text, err := Indent(body)
		if err != nil {
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func (s *Service) invoke(ctx context.Context, spec Spec, raw json.RawMessage) (json.RawMessage, error) {
	ctx, id := requestid.Ensure(ctx, uuid.NewString)
	start := time.Now()

	body, err := s.run(ctx, spec, raw)

	duration := time.Since(start)
	metrics.RecordToolCall(spec.Name, err == nil, duration)

	fields := []zap.Field{
		zap.String("tool", spec.Name),
		zap.String("request_id", id),
		zap.Duration("duration", duration),
	}
	if err != nil {
		envelope := apperrors.FromDispatch(ctx, err)
		metrics.RecordToolError(spec.Name, envelope.Code)
		apperrors.LogEnvelope(s.Logger, envelope, fields...)
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("tool call completed", append(fields, zap.Int("bytes", len(body)))...)
	}
	return body, nil
}

func (s *Service) run(ctx context.Context, spec Spec, raw json.RawMessage) (json.RawMessage, error) {
	args, err := DecodeArgs(raw)
	if err != nil {
		return nil, err
	}
	req, err := spec.Validate(args)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, req)
}

// Indent renders upstream JSON with two-space indentation.
func Indent(body json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return "", &openfda.MalformedResponseError{Err: err}
	}
	return buf.String(), nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
