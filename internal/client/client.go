// Package client is a typed HTTP client for the DevCollab REST API and its websocket change feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const requestIDHeader = "X-Request-Id"

// HttpRequestDoer performs HTTP requests. *http.Client satisfies it.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn can mutate an outgoing request, e.g. to add auth headers.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type Client struct {
	server  string
	doer    HttpRequestDoer
	logger  *slog.Logger
	editors []RequestEditorFn
}

type Option func(*Client)

func WithHTTPClient(doer HttpRequestDoer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithRequestEditorFn(fn RequestEditorFn) Option {
	return func(c *Client) {
		c.editors = append(c.editors, fn)
	}
}

// New returns a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server url must start with http:// or https://")
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("server url has no host")
	}

	c := &Client{
		server: strings.TrimRight(parsed.String(), "/"),
		doer:   &http.Client{Timeout: 15 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Server() string {
	return c.server
}

// pathParam encodes an id the way generated OpenAPI clients do.
func pathParam(name string, value int64) (string, error) {
	return runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
}

// queryParam renders name=value in form style with the value escaped.
func queryParam(name string, value any) (string, error) {
	encoded, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	return encoded, nil
}

// route builds a path from literal segments and int64 path parameters, in order.
func route(parts ...any) (string, error) {
	var b strings.Builder
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case param:
			encoded, err := pathParam(v.name, v.value)
			if err != nil {
				return "", fmt.Errorf("encode %s: %w", v.name, err)
			}
			b.WriteString(encoded)
		default:
			return "", fmt.Errorf("unsupported route part %T", part)
		}
	}
	return b.String(), nil
}

type param struct {
	name  string
	value int64
}

func p(name string, value int64) param {
	return param{name: name, value: value}
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Header, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw), Body: raw}
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.Header, fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return resp.Header, nil
}

// errorMessage prefers the problem+json detail, then title, then a plain error field.
func errorMessage(status int, raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"detail", "title", "error"} {
			if value, ok := obj[key].(string); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	if trimmed := strings.TrimSpace(string(raw)); trimmed != "" && !json.Valid(raw) {
		return trimmed
	}
	return http.StatusText(status)
}
