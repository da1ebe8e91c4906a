// Package remote talks to the form service: it registers an identity and
// fetches the form issued for it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// DefaultBaseURL is the hosted form service.
const DefaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"

const (
	MessageCreateUser = "Failed to create user"
	MessageFetchForm  = "Failed to fetch form"
)

// ErrRequestFailed matches every RequestError via errors.Is.
var ErrRequestFailed = errors.New("remote: request failed")

// RequestError reports a failed call. Error returns the fixed user-facing
// message; the underlying cause is available through Unwrap.
type RequestError struct {
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service root. A trailing slash is dropped.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client calls the two service endpoints. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient constructs a client for DefaultBaseURL unless overridden.
func NewClient(options ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    30 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RegisterIdentity posts the identity to /create-user. Any 2xx counts as
// success and the body is ignored.
func (c *Client) RegisterIdentity(ctx context.Context, id identity.Identity) error {
	body, err := json.Marshal(id)
	if err != nil {
		return &RequestError{Op: "create-user", Message: MessageCreateUser, Err: err}
	}
	_, err = c.do(ctx, "create-user", MessageCreateUser, http.MethodPost, c.baseURL+"/create-user", body)
	return err
}

// FetchForm retrieves the form issued for rollNumber from /get-form.
func (c *Client) FetchForm(ctx context.Context, rollNumber string) (schema.FormSchema, error) {
	endpoint := c.baseURL + "/get-form?rollNumber=" + url.QueryEscape(rollNumber)
	data, err := c.do(ctx, "get-form", MessageFetchForm, http.MethodGet, endpoint, nil)
	if err != nil {
		return schema.FormSchema{}, err
	}

	fail := func(err error) (schema.FormSchema, error) {
		c.logger.Error("decode form", "error", err)
		return schema.FormSchema{}, &RequestError{Op: "get-form", Message: MessageFetchForm, Err: err}
	}
	src, err := schema.ParseURLSource(endpoint)
	if err != nil {
		return fail(err)
	}
	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return fail(err)
	}
	form, err := doc.Decode()
	if err != nil {
		return fail(err)
	}
	return form, nil
}

func (c *Client) do(ctx context.Context, op, message, method, endpoint string, body []byte) ([]byte, error) {
	fail := func(status int, err error) ([]byte, error) {
		c.logger.Error("remote request failed", "op", op, "status", status, "error", err)
		return nil, &RequestError{Op: op, Message: message, StatusCode: status, Err: err}
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, reader)
	if err != nil {
		return fail(0, fmt.Errorf("remote: build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("remote: do request: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("remote request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, fmt.Errorf("remote: unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("remote: read body: %w", err))
	}
	return data, nil
}
