package output

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
)

// identifierFields are the record keys openFDA datasets use as primary ids,
// in lookup order.
var identifierFields = []string{
	"safetyreportid",
	"set_id",
	"recall_number",
	"mdr_report_key",
	"report_number",
	"event_key",
	"id",
}

// Meta is the paging block openFDA returns under meta.results.
type Meta struct {
	Skip  int64
	Limit int64
	Total int64
}

// CountRow is one bucket of a count response.
type CountRow struct {
	Term  string
	Count int64
}

// Record summarizes one search result.
type Record struct {
	Position   int
	Identifier string
	Fields     int
}

// Result is a tool response prepared for tabular rendering. Raw is kept for
// the JSON format.
type Result struct {
	Tool    string
	Raw     json.RawMessage
	Meta    *Meta
	Counts  []CountRow
	Records []Record
}

// IsCount reports whether the response held term/count buckets.
func (r *Result) IsCount() bool {
	return len(r.Counts) > 0
}

type envelope struct {
	Meta *struct {
		Results *struct {
			Skip  json.Number `json:"skip"`
			Limit json.Number `json:"limit"`
			Total json.Number `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []map[string]json.RawMessage `json:"results"`
}

// ParseResult inspects an upstream response body. Shapes it does not
// recognize still render as JSON.
func ParseResult(tool string, raw json.RawMessage) (*Result, error) {
	result := &Result{Tool: tool, Raw: raw}

	var body envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		if _, decodeErr := openfda.Decode(raw); decodeErr != nil {
			return nil, decodeErr
		}
		return result, nil
	}

	if body.Meta != nil && body.Meta.Results != nil {
		paging := body.Meta.Results
		result.Meta = &Meta{
			Skip:  number(paging.Skip),
			Limit: number(paging.Limit),
			Total: number(paging.Total),
		}
	}

	for i, row := range body.Results {
		if term, count, ok := countBucket(row); ok {
			result.Counts = append(result.Counts, CountRow{Term: term, Count: count})
			continue
		}
		result.Records = append(result.Records, Record{
			Position:   i + 1,
			Identifier: identifier(row),
			Fields:     len(row),
		})
	}

	return result, nil
}

func countBucket(row map[string]json.RawMessage) (string, int64, bool) {
	rawCount, ok := row["count"]
	if !ok || len(row) != 2 {
		return "", 0, false
	}

	rawTerm, ok := row["term"]
	if !ok {
		if rawTerm, ok = row["time"]; !ok {
			return "", 0, false
		}
	}

	count, err := strconv.ParseInt(string(bytes.TrimSpace(rawCount)), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return scalar(rawTerm), count, true
}

func identifier(row map[string]json.RawMessage) string {
	for _, field := range identifierFields {
		if value, ok := row[field]; ok {
			if text := scalar(value); text != "" {
				return text
			}
		}
	}
	return ""
}

// scalar returns the text of a JSON string or number; other values yield "".
func scalar(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func number(n json.Number) int64 {
	if v, err := n.Int64(); err == nil {
		return v
	}
	return 0
}
