package openfda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/petrefiedthunder/mcp-fda/internal/metrics"
)

const (
	// DefaultUserAgent identifies this client to openFDA.
	DefaultUserAgent = "mcp-fda/1.0.0 (https://github.com/PetrefiedThunder/mcp-fda)"

	// DefaultMinInterval keeps the client near 4 req/s, the openFDA budget
	// without a key.
	DefaultMinInterval = 250 * time.Millisecond

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 30 * time.Second

	malformedSnippet = 256
)

// MeasureMode selects the instant the minimum interval is measured from.
type MeasureMode string

const (
	// MeasureFromIssue stamps the clock right before the request is sent.
	MeasureFromIssue MeasureMode = "issue"

	// MeasureFromCompletion stamps the clock after the response is read and
	// keeps later dispatches waiting for the whole call.
	MeasureFromCompletion MeasureMode = "completion"
)

// ParseMeasureMode validates a configured measure mode. Empty means issue.
func ParseMeasureMode(value string) (MeasureMode, error) {
	switch MeasureMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", MeasureFromIssue:
		return MeasureFromIssue, nil
	case MeasureFromCompletion:
		return MeasureFromCompletion, nil
	default:
		return "", fmt.Errorf("unsupported measure mode %q (want issue or completion)", value)
	}
}

// Options configures a Dispatcher. Zero values fall back to the defaults.
type Options struct {
	Client      *http.Client
	UserAgent   string
	MinInterval time.Duration
	Timeout     time.Duration
	MeasureFrom MeasureMode
	Clock       func() time.Time
	Logger      *logging.Logger
}

// Dispatcher serializes outbound GETs so consecutive dispatches are never
// closer than the minimum interval. It is a trailing throttle: idle time does
// not accumulate credit for bursts.
type Dispatcher struct {
	client      *http.Client
	userAgent   string
	minInterval time.Duration
	timeout     time.Duration
	measure     MeasureMode
	clock       func() time.Time
	logger      *logging.Logger

	// gate is a one-slot semaphore guarding lastRequestTime. Holding it
	// across the interval wait keeps two callers from both passing the
	// check inside the same window.
	gate            chan struct{}
	lastRequestTime time.Time
}

// NewDispatcher creates a dispatcher with its own throttle state.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		client:      opts.Client,
		userAgent:   opts.UserAgent,
		minInterval: opts.MinInterval,
		timeout:     opts.Timeout,
		measure:     opts.MeasureFrom,
		clock:       opts.Clock,
		logger:      opts.Logger,
		gate:        make(chan struct{}, 1),
	}
	if d.client == nil {
		d.client = &http.Client{}
	}
	if d.userAgent == "" {
		d.userAgent = DefaultUserAgent
	}
	if d.minInterval < 0 {
		d.minInterval = 0
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.measure == "" {
		d.measure = MeasureFromIssue
	}
	return d
}

// MinInterval returns the configured spacing between dispatches.
func (d *Dispatcher) MinInterval() time.Duration {
	return d.minInterval
}

// Get performs a throttled GET and returns the response body after checking
// it is valid JSON. Errors are *TransportError, *UpstreamHTTPError or
// *MalformedResponseError.
func (d *Dispatcher) Get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	redacted := RedactURL(rawURL)

	select {
	case d.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, &TransportError{URL: redacted, Err: ctx.Err()}
	}
	held := true
	release := func() {
		if held {
			held = false
			<-d.gate
		}
	}
	defer release()

	wait := d.delay(d.now())
	if wait > 0 {
		metrics.RecordThrottleWait(wait)
		if err := sleepContext(ctx, wait); err != nil {
			return nil, &TransportError{URL: redacted, Err: err}
		}
	}

	if d.measure == MeasureFromIssue {
		d.lastRequestTime = d.now()
		release()
	}

	started := time.Now()
	body, status, err := d.do(ctx, rawURL, redacted)
	duration := time.Since(started)

	if d.measure == MeasureFromCompletion {
		d.lastRequestTime = d.now()
	}

	metrics.RecordDispatch(endpointLabel(rawURL), outcome(err), duration)
	if d.logger != nil {
		fields := []zap.Field{
			zap.String("url", redacted),
			zap.Int("status", status),
			zap.Duration("throttle_wait", wait),
			zap.Duration("duration", duration),
		}
		if err != nil {
			d.logger.Warn("openFDA dispatch failed", append(fields, zap.Error(err))...)
		} else {
			d.logger.Debug("openFDA dispatch completed", fields...)
		}
	}

	return body, err
}

func (d *Dispatcher) do(ctx context.Context, rawURL, redacted string) (json.RawMessage, int, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, &TransportError{URL: redacted, Err: err}
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{URL: redacted, Err: scrubURLError(err)}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, &UpstreamHTTPError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       readErrorBody(resp),
			RetryAfter: retryAfterHeader(resp),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{URL: redacted, Err: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, resp.StatusCode, &MalformedResponseError{
			Snippet: snippet(bytes.TrimSpace(data), malformedSnippet),
			Err:     err,
		}
	}

	return raw, resp.StatusCode, nil
}

// delay returns how long a dispatch starting at now must wait.
func (d *Dispatcher) delay(now time.Time) time.Duration {
	if d.lastRequestTime.IsZero() || d.minInterval <= 0 {
		return 0
	}
	elapsed := now.Sub(d.lastRequestTime)
	if elapsed >= d.minInterval {
		return 0
	}
	return d.minInterval - elapsed
}

func (d *Dispatcher) now() time.Time {
	if d.clock != nil {
		return d.clock()
	}
	return time.Now()
}

func sleepContext(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// scrubURLError drops the request URL from *url.Error so the API key does not
// leak into tool output.
func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func endpointLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	return strings.TrimSuffix(parsed.Path, pathExtension)
}

func outcome(err error) string {
	var (
		transport *TransportError
		upstream  *UpstreamHTTPError
		malformed *MalformedResponseError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &upstream):
		return "upstream_http"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &transport):
		return "transport"
	default:
		return "error"
	}
}

// Decode parses a response body, keeping numbers as json.Number.
func Decode(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(raw, malformedSnippet), Err: err}
	}
	return value, nil
}
