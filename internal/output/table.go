package output

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatResult renders count buckets as term/count rows and search results as
// one row per record.
func (f *TableFormatter) FormatResult(result *Result) (string, error) {
	if result == nil {
		return "", nil
	}

	if !result.IsCount() && len(result.Records) == 0 && result.Meta == nil {
		return (&JSONFormatter{}).FormatResult(result)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	if result.IsCount() {
		t.AppendHeader(table.Row{"Term", "Count"})
		for _, row := range result.Counts {
			t.AppendRow(table.Row{row.Term, row.Count})
		}
	} else {
		t.AppendHeader(table.Row{"#", "Identifier", "Fields"})
		for _, record := range result.Records {
			t.AppendRow(table.Row{record.Position, dash(record.Identifier), record.Fields})
		}
	}

	if result.Meta != nil {
		if result.IsCount() {
			t.AppendFooter(table.Row{"", metaSummary(result.Meta)})
		} else {
			t.AppendFooter(table.Row{"", "", metaSummary(result.Meta)})
		}
	}

	return t.Render(), nil
}

func catalogTable(entries []catalogEntry) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Tool", "Endpoint", "Limit", "Skip", "Description"})

	for _, entry := range entries {
		skip := "no"
		if entry.Skip {
			skip = "yes"
		}
		t.AppendRow(table.Row{
			entry.Name,
			entry.Endpoint,
			fmt.Sprintf("%d-%d (default %d)", entry.Limit.Min, entry.Limit.Max, entry.Limit.Default),
			skip,
			entry.Description,
		})
	}

	return t.Render()
}

func metaSummary(meta *Meta) string {
	return "skip " + strconv.FormatInt(meta.Skip, 10) +
		", limit " + strconv.FormatInt(meta.Limit, 10) +
		", total " + strconv.FormatInt(meta.Total, 10)
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
