package output

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatResult renders a tool result as Markdown.
func (f *MarkdownFormatter) FormatResult(result *Result) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(result.Tool)))

	switch {
	case result.IsCount():
		sb.WriteString("| Term | Count |\n")
		sb.WriteString("|------|-------|\n")
		for _, row := range result.Counts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeMarkdownCell(row.Term), row.Count))
		}
	case len(result.Records) > 0:
		sb.WriteString("| # | Identifier | Fields |\n")
		sb.WriteString("|---|------------|--------|\n")
		for _, record := range result.Records {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n",
				record.Position,
				escapeMarkdownCell(dash(record.Identifier)),
				record.Fields,
			))
		}
	default:
		body, err := (&JSONFormatter{}).FormatResult(result)
		if err != nil {
			return "", err
		}
		sb.WriteString("```json\n")
		sb.WriteString(body)
		sb.WriteString("\n```\n")
	}

	if result.Meta != nil {
		sb.WriteString(fmt.Sprintf("\n**Results**: %s\n", metaSummary(result.Meta)))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
