// Package remote talks to a setclock server over its REST API. It lets the
// terminal client and the stdio MCP bridge use the same persistence interface
// as the server does against Postgres.
package remote

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

	"github.com/claude/setclock/internal/models"
)

var (
	// ErrLoad is returned when days or sessions cannot be fetched.
	ErrLoad = errors.New("loading from server")
	// ErrNotFound mirrors a 404 from the server.
	ErrNotFound = errors.New("not found")
)

// StatusError carries a non-2xx response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Path, e.Code, e.Body)
}

// HTTPClient implements the persistence interface against a remote server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	backoff    func(attempt int) time.Duration
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		attempts:   3,
		backoff:    exponentialBackoff,
	}
}

// BaseURL returns the server URL requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// ListWorkoutDays fetches every day keyed by ID.
func (c *HTTPClient) ListWorkoutDays(ctx context.Context) (map[string]models.WorkoutDay, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/days", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	days := map[string]models.WorkoutDay{}
	if err := json.Unmarshal(body, &days); err != nil {
		return nil, fmt.Errorf("%w: decode days: %w", ErrLoad, err)
	}
	return days, nil
}

// CreateWorkoutDay stores a new day and returns the ID the server assigned.
func (c *HTTPClient) CreateWorkoutDay(ctx context.Context, day models.WorkoutDay) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/days", nil, day)
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("httpclient: decode created day: %w", err)
	}
	return resp.ID, nil
}

// UpdateWorkoutDay replaces the name and exercises of an existing day.
func (c *HTTPClient) UpdateWorkoutDay(ctx context.Context, id string, day models.WorkoutDay) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/days/"+url.PathEscape(id), nil, day)
	return err
}

func (c *HTTPClient) DeleteWorkoutDay(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/days/"+url.PathEscape(id), nil, nil)
	return err
}

// SaveSessionSummary posts a finished session. Retries up to the configured
// number of attempts with exponential backoff; the server ignores repeated IDs.
// Client errors (4xx) are not retried.
func (c *HTTPClient) SaveSessionSummary(ctx context.Context, s models.SessionSummary) error {
	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		_, err := c.do(ctx, http.MethodPost, "/api/v1/sessions", nil, s)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

// QuerySessionSummaries fetches sessions logged at or after since, most recent first.
func (c *HTTPClient) QuerySessionSummaries(ctx context.Context, since time.Time) ([]models.SessionSummary, error) {
	params := url.Values{}
	params.Set("since", since.Format(time.RFC3339Nano))

	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions", params, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	var sessions []models.SessionSummary
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("%w: decode sessions: %w", ErrLoad, err)
	}
	return sessions, nil
}

func (c *HTTPClient) DeleteSessionSummary(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+url.PathEscape(id), nil, nil)
	return err
}
