package openfda

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError rejects a tool input before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps DNS, connection, timeout and cancellation failures.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("openFDA request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamHTTPError reports a non-2xx response from openFDA.
type UpstreamHTTPError struct {
	StatusCode int
	Status     string
	Body       string

	// RetryAfter is informational only; the dispatcher never retries.
	RetryAfter time.Duration
}

func (e *UpstreamHTTPError) Error() string {
	msg := "openFDA API error: " + strconv.Itoa(e.StatusCode)
	if e.Status != "" {
		msg += " " + e.Status
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += " - " + body
	}
	return msg
}

// MalformedResponseError reports a success response whose body is not JSON.
type MalformedResponseError struct {
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("openFDA returned malformed JSON: %v", e.Err)
	}
	return "openFDA returned malformed JSON"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func quote(value string) string {
	return strconv.Quote(value)
}

// snippet truncates body text for error payloads without splitting a UTF-8
// sequence.
func snippet(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
