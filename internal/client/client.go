// Package client is a typed HTTP client for the task tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Task is a task as returned by the API.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Done        bool    `json:"done"`
}

// CreateTaskInput is the body of POST /tasks. Nil fields are omitted.
type CreateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Done        *bool   `json:"done,omitempty"`
}

// UpdateTaskInput is the body of PUT /tasks/{id}. Nil fields are omitted
// and left unchanged by the server.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Done        *bool   `json:"done,omitempty"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DB            struct {
		OK        bool   `json:"ok"`
		LatencyMS *int64 `json:"latency_ms"`
		Pool      struct {
			OpenConnections int   `json:"open_connections"`
			InUse           int   `json:"in_use"`
			Idle            int   `json:"idle"`
			WaitCount       int64 `json:"wait_count"`
		} `json:"pool"`
	} `json:"db"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("api error %d: %s (request %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a single API base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type taskEnvelope struct {
	Task Task `json:"task"`
}

type tasksEnvelope struct {
	Tasks []Task `json:"tasks"`
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var out tasksEnvelope
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	var out taskEnvelope
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	var out taskEnvelope
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in UpdateTaskInput) (*Task, error) {
	var out taskEnvelope
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// DeleteTask removes a task and returns it as it was before deletion.
func (c *Client) DeleteTask(ctx context.Context, id int64) (*Task, error) {
	var out taskEnvelope
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// Health calls GET /healthz. An unhealthy store is reported through both
// the returned body and an *APIError with status 500.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)
	var apiErr *APIError
	if err != nil && !(errors.As(err, &apiErr) && out.Status != "") {
		return nil, err
	}
	return &out, err
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}
		var errBody struct {
			Error     string `json:"error"`
			RequestID string `json:"request_id"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			if errBody.RequestID != "" {
				apiErr.RequestID = errBody.RequestID
			}
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
			// Health reports failures with a full body rather than an error.
			if out != nil {
				_ = json.Unmarshal(raw, out)
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// String returns a pointer to s, for building inputs.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building inputs.
func Bool(b bool) *bool { return &b }
