// Package cronicle is a thin authenticated HTTP client for a Cronicle
// scheduler. It covers the four management endpoints this system uses:
// create_event, get_schedule, get_event and delete_event.
//
// The client holds no local state beyond its credential and base address;
// every call is a fresh remote read or mutation.
package cronicle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/djlord-it/croniclectl/internal/domain"
)

const (
	basePath   = "/api/app"
	apiVersion = "/v1/"

	createEventPath = basePath + "/create_event" + apiVersion
	getSchedulePath = basePath + "/get_schedule" + apiVersion
	getEventPath    = basePath + "/get_event" + apiVersion
	deleteEventPath = basePath + "/delete_event" + apiVersion
)

// DefaultBaseURL is where a locally running Cronicle listens.
const DefaultBaseURL = "http://localhost:3012"

// defaultCallTimeout bounds management API calls. This is unrelated to
// the params.timeout field, which governs the scheduled job's own
// execution on the remote side.
const defaultCallTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read (1MB).
const maxResponseSize = 1 << 20

// Config holds the credential and address for one scheduler. Both are
// injected here; nothing is read from process-wide state.
type Config struct {
	APIKey  string
	BaseURL string        // default: DefaultBaseURL
	Timeout time.Duration // management-call timeout, default 30s
}

// Breaker gates remote calls per operation after repeated transport
// failures. An open circuit surfaces as a TransportError.
type Breaker interface {
	Allow(op string) error
	RecordSuccess(op string)
	RecordFailure(op string)
}

// MetricsSink records per-call metrics. Implementations must be
// non-blocking and fire-and-forget.
type MetricsSink interface {
	RequestCompleted(op string, statusClass string, duration time.Duration)
}

// AnalyticsSink records per-call analytics as a best-effort side effect.
// Implementations handle their own errors; analytics never affects call
// outcomes.
type AnalyticsSink interface {
	Record(ctx context.Context, op string, outcome string)
}

// Outcome labels for analytics.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client

	breaker   Breaker       // optional, nil = disabled
	metrics   MetricsSink   // optional, nil = disabled
	analytics AnalyticsSink // optional, nil = disabled

	newRequestID func() string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		newRequestID: func() string { return uuid.New().String() },
	}
}

// WithBreaker attaches a circuit breaker to the client.
func (c *Client) WithBreaker(b Breaker) *Client {
	c.breaker = b
	return c
}

// WithMetrics attaches a metrics sink to the client.
func (c *Client) WithMetrics(m MetricsSink) *Client {
	c.metrics = m
	return c
}

// WithAnalytics attaches a call-analytics sink to the client.
func (c *Client) WithAnalytics(a AnalyticsSink) *Client {
	c.analytics = a
	return c
}

// CreateEvent submits a new scheduled event and returns it with the
// scheduler-assigned id filled in.
func (c *Client) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	var resp createResponse
	if err := c.do(ctx, OpCreateEvent, http.MethodPost, createEventPath, nil, event, &resp); err != nil {
		return domain.Event{}, err
	}
	event.ID = resp.ID
	return event, nil
}

// GetSchedule returns every event currently known to the scheduler.
// This is the only enumeration primitive; there is no server-side
// filter-by-title.
func (c *Client) GetSchedule(ctx context.Context) ([]domain.Event, error) {
	var resp scheduleResponse
	if err := c.do(ctx, OpGetSchedule, http.MethodGet, getSchedulePath, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// GetEvent looks up a single event by id or title. A nil event with a
// nil error means no match.
func (c *Client) GetEvent(ctx context.Context, filter Filter) (*domain.Event, error) {
	query := url.Values{}
	if filter.ID != "" {
		query.Set("id", filter.ID)
	}
	if filter.Title != "" {
		query.Set("title", filter.Title)
	}

	var resp eventResponse
	if err := c.do(ctx, OpGetEvent, http.MethodGet, getEventPath, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Event, nil
}

// DeleteEvent removes an event by id. The scheduler's delete endpoint
// does not accept titles. Deleting an unknown id is reported as a
// RemoteError, which bulk callers record rather than propagate.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, OpDeleteEvent, http.MethodPost, deleteEventPath, nil, deleteRequest{ID: id}, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(op); err != nil {
			return c.fail(ctx, op, 0, time.Duration(0), &TransportError{Op: op, Err: err})
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cronicle: %s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("cronicle: %s: build request: %w", op, err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Request-ID", c.newRequestID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		if c.breaker != nil {
			c.breaker.RecordFailure(op)
		}
		return c.fail(ctx, op, 0, duration, &TransportError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	// A response was received: the transport is healthy regardless of
	// what the scheduler thought of the request.
	if c.breaker != nil {
		c.breaker.RecordSuccess(op)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return c.fail(ctx, op, resp.StatusCode, duration, &TransportError{Op: op, Err: err})
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return c.fail(ctx, op, resp.StatusCode, duration, &AuthError{Op: op, Description: strings.TrimSpace(string(raw))})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(ctx, op, resp.StatusCode, duration, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: raw})
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return c.fail(ctx, op, resp.StatusCode, duration, &RemoteError{
			Op: op, StatusCode: resp.StatusCode, Description: "malformed response", Body: raw,
		})
	}
	if !env.ok() {
		if env.sessionRejected() {
			return c.fail(ctx, op, resp.StatusCode, duration, &AuthError{Op: op, Description: env.Description})
		}
		return c.fail(ctx, op, resp.StatusCode, duration, &RemoteError{
			Op:          op,
			StatusCode:  resp.StatusCode,
			Code:        strings.Trim(string(env.Code), `"`),
			Description: env.Description,
			Body:        raw,
		})
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return c.fail(ctx, op, resp.StatusCode, duration, &RemoteError{
				Op: op, StatusCode: resp.StatusCode, Description: "malformed response", Body: raw,
			})
		}
	}

	c.observe(ctx, op, resp.StatusCode, nil, duration)
	return nil
}

// fail records the failed call and returns callErr unchanged.
func (c *Client) fail(ctx context.Context, op string, statusCode int, duration time.Duration, callErr error) error {
	c.observe(ctx, op, statusCode, callErr, duration)
	return callErr
}

func (c *Client) observe(ctx context.Context, op string, statusCode int, callErr error, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RequestCompleted(op, classifyStatus(statusCode, callErr), duration)
	}
	if c.analytics != nil {
		outcome := OutcomeSuccess
		if callErr != nil {
			outcome = OutcomeFailed
		}
		c.analytics.Record(ctx, op, outcome)
	}
}

// classifyStatus maps a call result to a bounded-cardinality status
// class for metrics labels.
func classifyStatus(statusCode int, err error) string {
	if err != nil {
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
			return "timeout"
		case strings.Contains(msg, "connection refused") ||
			strings.Contains(msg, "no such host") ||
			strings.Contains(msg, "network is unreachable") ||
			strings.Contains(msg, "dial"):
			return "connection_error"
		case strings.Contains(msg, "api key rejected"):
			return "auth_error"
		case strings.Contains(msg, "remote rejection"):
			return "remote_rejection"
		default:
			return "other_error"
		}
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other_error"
	}
}
