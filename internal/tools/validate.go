package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
)

// Args are the decoded arguments of one invocation. Nil means the caller
// omitted the field.
type Args struct {
	Query      *string
	Limit      *int
	Skip       *int
	Endpoint   *string
	CountField *string
}

type wireArgs struct {
	Query      *string      `json:"query"`
	Limit      json.RawMessage `json:"limit"`
	Skip       json.RawMessage `json:"skip"`
	Endpoint   *string      `json:"endpoint"`
	CountField *string      `json:"countField"`
}

// DecodeArgs parses the JSON arguments object of a tool call. Unknown fields
// are ignored; wrongly typed fields are validation errors.
func DecodeArgs(raw json.RawMessage) (Args, error) {
	var args Args

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return args, nil
	}

	var wire wireArgs
	if err := json.Unmarshal(raw, &wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return args, &openfda.ValidationError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("must be %s, got %s", expectedType(typeErr.Field), typeErr.Value),
			}
		}
		return args, &openfda.ValidationError{Reason: "malformed arguments: " + err.Error()}
	}

	limit, err := integer("limit", wire.Limit)
	if err != nil {
		return args, err
	}
	skip, err := integer("skip", wire.Skip)
	if err != nil {
		return args, err
	}

	args.Query = wire.Query
	args.Limit = limit
	args.Skip = skip
	args.Endpoint = wire.Endpoint
	args.CountField = wire.CountField
	return args, nil
}

// integer decodes a JSON number token. Quoted numbers are rejected: the
// declared schema type is integer.
func integer(field string, raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	token, err := dec.Token()
	value, ok := token.(json.Number)
	if err != nil || !ok {
		return nil, &openfda.ValidationError{Field: field, Reason: "must be an integer, got " + string(raw)}
	}

	n, err := value.Int64()
	if err != nil {
		f, ferr := value.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return nil, &openfda.ValidationError{Field: field, Reason: "must be an integer, got " + value.String()}
		}
		n = int64(f)
	}
	i := int(n)
	return &i, nil
}

func expectedType(field string) string {
	switch field {
	case "limit", "skip":
		return "an integer"
	default:
		return "a string"
	}
}

// Validate checks args against the tool's declared bounds and returns a
// ready-to-dispatch request. It performs no I/O. Out-of-range values are
// rejected, never clamped.
func (s Spec) Validate(args Args) (openfda.Request, error) {
	limit := s.Limit.Default
	if args.Limit != nil {
		limit = *args.Limit
	}
	if !s.Limit.Contains(limit) {
		return openfda.Request{}, &openfda.ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", s.Limit.Min, s.Limit.Max, limit),
		}
	}

	switch s.Kind {
	case KindSearch:
		return s.validateSearch(args, limit)
	case KindCount:
		return s.validateCount(args, limit)
	default:
		return openfda.Request{}, fmt.Errorf("tool %s has unknown kind %q", s.Name, s.Kind)
	}
}

func (s Spec) validateSearch(args Args, limit int) (openfda.Request, error) {
	if args.Query == nil {
		return openfda.Request{}, &openfda.ValidationError{Field: "query", Reason: "is required"}
	}

	params := []openfda.Param{
		openfda.String("search", *args.Query),
		openfda.Int("limit", limit),
	}

	if s.AcceptsSkip {
		skip := 0
		if args.Skip != nil {
			skip = *args.Skip
		}
		if skip < 0 {
			return openfda.Request{}, &openfda.ValidationError{
				Field:  "skip",
				Reason: fmt.Sprintf("must be at least 0, got %d", skip),
			}
		}
		params = append(params, openfda.Int("skip", skip))
	}

	return openfda.Request{Endpoint: s.Endpoint, Params: params}, nil
}

func (s Spec) validateCount(args Args, limit int) (openfda.Request, error) {
	if args.Endpoint == nil {
		return openfda.Request{}, &openfda.ValidationError{Field: "endpoint", Reason: "is required"}
	}
	endpoint, err := openfda.ParseEndpoint(*args.Endpoint)
	if err != nil {
		return openfda.Request{}, err
	}

	if args.CountField == nil || strings.TrimSpace(*args.CountField) == "" {
		return openfda.Request{}, &openfda.ValidationError{Field: "countField", Reason: "is required"}
	}

	return openfda.Request{
		Endpoint: endpoint,
		Params: []openfda.Param{
			openfda.Optional("search", args.Query),
			openfda.String("count", *args.CountField),
			openfda.Int("limit", limit),
		},
	}, nil
}
