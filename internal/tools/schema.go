package tools

import (
	"encoding/json"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
)

// InputSchema returns the JSON Schema advertised for the tool's arguments.
func (s Spec) InputSchema() *jsonschema.Schema {
	properties := map[string]*jsonschema.Schema{}
	var required []string

	if s.Kind == KindCount {
		enum := make([]any, 0, len(openfda.Endpoints))
		for _, endpoint := range openfda.EndpointStrings() {
			enum = append(enum, endpoint)
		}
		properties["endpoint"] = &jsonschema.Schema{
			Type:        "string",
			Description: "The openFDA endpoint to query",
			Enum:        enum,
		}
		properties["countField"] = &jsonschema.Schema{
			Type:        "string",
			Description: "Field to count, e.g. 'patient.reaction.reactionmeddrapt.exact' for top reactions",
		}
		required = append(required, "endpoint", "countField")
	}

	properties["query"] = &jsonschema.Schema{
		Type:        "string",
		Description: s.QueryHelp,
	}
	if s.Kind == KindSearch {
		required = append([]string{"query"}, required...)
	}

	properties["limit"] = integerSchema("Maximum number of results", s.Limit)
	if s.AcceptsSkip {
		properties["skip"] = &jsonschema.Schema{
			Type:        "integer",
			Description: "Number of results to skip for paging",
			Minimum:     float(0),
			Default:     json.RawMessage("0"),
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func integerSchema(description string, bounds Bounds) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: description,
		Minimum:     float(bounds.Min),
		Maximum:     float(bounds.Max),
		Default:     json.RawMessage(strconv.Itoa(bounds.Default)),
	}
}

func float(v int) *float64 {
	f := float64(v)
	return &f
}
