package output

import (
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

// JSONFormatter renders the upstream response verbatim with two-space
// indentation.
type JSONFormatter struct{}

// FormatResult renders a tool result as JSON.
func (f *JSONFormatter) FormatResult(result *Result) (string, error) {
	if result == nil {
		return "", nil
	}
	return tools.Indent(result.Raw)
}
