package openfda

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the public openFDA host.
	DefaultBaseURL = "https://api.fda.gov"

	pathExtension = ".json"
	apiKeyParam   = "api_key"
)

// Param is a single query parameter. Params that are not Present are left out
// of the URL instead of being sent empty.
type Param struct {
	Name    string
	Value   string
	Present bool
}

// String returns a present parameter.
func String(name, value string) Param {
	return Param{Name: name, Value: value, Present: true}
}

// Int returns a present integer parameter.
func Int(name string, value int) Param {
	return String(name, strconv.Itoa(value))
}

// Optional returns a parameter that is present only when value is non-nil.
func Optional(name string, value *string) Param {
	if value == nil {
		return Param{Name: name}
	}
	return String(name, *value)
}

// Request describes one outbound call. It is built per invocation and never
// retained.
type Request struct {
	Endpoint Endpoint
	Params   []Param
	APIKey   string
}

// BuildURL assembles the request URL. The API key, when set, comes first;
// remaining parameters keep caller order, and a repeated name replaces the
// earlier value in place.
func BuildURL(baseURL string, req Request) (string, error) {
	if !req.Endpoint.Valid() {
		return "", &ValidationError{Field: "endpoint", Reason: "unknown endpoint " + quote(string(req.Endpoint))}
	}

	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	q := &orderedQuery{}
	if req.APIKey != "" {
		q.set(apiKeyParam, req.APIKey)
	}
	for _, p := range req.Params {
		if !p.Present || p.Name == "" {
			continue
		}
		q.set(p.Name, p.Value)
	}

	parsed.Path += req.Endpoint.Path()
	parsed.RawQuery = q.encode()
	return parsed.String(), nil
}

// RedactURL masks the API key so URLs can be logged.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.RawQuery == "" {
		return raw
	}

	pairs := strings.Split(parsed.RawQuery, "&")
	for i, pair := range pairs {
		if strings.HasPrefix(pair, apiKeyParam+"=") {
			pairs[i] = apiKeyParam + "=REDACTED"
		}
	}
	parsed.RawQuery = strings.Join(pairs, "&")
	return parsed.String()
}

type orderedQuery struct {
	names  []string
	values map[string]string
}

func (q *orderedQuery) set(name, value string) {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, ok := q.values[name]; !ok {
		q.names = append(q.names, name)
	}
	q.values[name] = value
}

func (q *orderedQuery) encode() string {
	var b strings.Builder
	for i, name := range q.names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[name]))
	}
	return b.String()
}
