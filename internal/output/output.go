// Package output renders tool results and the tool catalog for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// ResultFormats are the formats a tool result can be rendered in.
var ResultFormats = []Format{FormatJSON, FormatTable, FormatMarkdown}

// CatalogFormats are the formats the tool catalog can be rendered in.
var CatalogFormats = []Format{FormatTable, FormatJSON, FormatYAML}

// Formatter renders tool results.
type Formatter interface {
	FormatResult(result *Result) (string, error)
}

// ParseFormat validates and normalizes a format string against allowed. An
// empty value selects the first allowed format.
func ParseFormat(value string, allowed ...Format) (Format, error) {
	if len(allowed) == 0 {
		allowed = ResultFormats
	}

	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return allowed[0], nil
	}
	if normalized == "md" {
		normalized = FormatMarkdown
	}
	for _, format := range allowed {
		if normalized == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", value)
}

// NewFormatter returns a result formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatTable:
		return &TableFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &JSONFormatter{}
	}
}

type catalogEntry struct {
	Name        string       `json:"name" yaml:"name"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Endpoint    string       `json:"endpoint" yaml:"endpoint"`
	Limit       tools.Bounds `json:"limit" yaml:"limit"`
	Skip        bool         `json:"skip" yaml:"skip"`
	Query       string       `json:"query" yaml:"query"`
}

func catalogEntries(specs []tools.Spec) []catalogEntry {
	entries := make([]catalogEntry, 0, len(specs))
	for _, spec := range specs {
		entries = append(entries, catalogEntry{
			Name:        spec.Name,
			Title:       spec.Title,
			Description: spec.Description,
			Endpoint:    endpointLabel(spec),
			Limit:       spec.Limit,
			Skip:        spec.AcceptsSkip,
			Query:       spec.QueryHelp,
		})
	}
	return entries
}

func endpointLabel(spec tools.Spec) string {
	if spec.Kind == tools.KindCount {
		return "any (endpoint argument)"
	}
	return string(spec.Endpoint)
}

// FormatCatalog renders the tool catalog.
func FormatCatalog(format Format, specs []tools.Spec) (string, error) {
	entries := catalogEntries(specs)

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return catalogTable(entries), nil
	}
}
