// Package http provides the HTTP client used to talk to CI service APIs.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/perf"
)

const (
	defaultTimeout = 30 * time.Second

	// Response bodies are truncated to this many bytes in error messages.
	maxErrorBody = 512
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client defines the interface for making HTTP requests.
// This interface allows for easy mocking in tests.
type Client interface {
	// Do performs an HTTP request and returns the response.
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption is a functional option for configuring the DefaultClient.
type ClientOption func(*DefaultClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.client.Timeout = timeout
	}
}

// WithBearerToken authenticates every request with token.
func WithBearerToken(token string) ClientOption {
	return func(c *DefaultClient) {
		if token != "" {
			c.client.Transport = &BearerTokenTransport{
				Base:  c.client.Transport,
				Token: token,
			}
		}
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *DefaultClient) {
		c.client.Transport = transport
	}
}

// DefaultClient is the default HTTP client implementation.
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new DefaultClient with optional configuration.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	defer perf.Track(nil, "http.NewDefaultClient")()

	client := &DefaultClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do implements Client.Do.
func (c *DefaultClient) Do(req *http.Request) (*http.Response, error) {
	defer perf.Track(nil, "http.DefaultClient.Do")()

	return c.client.Do(req)
}

// BearerTokenTransport adds an Authorization header to each request.
type BearerTokenTransport struct {
	Base  http.RoundTripper
	Token string
}

// RoundTrip implements http.RoundTripper interface.
func (t *BearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	defer perf.Track(nil, "http.BearerTokenTransport.RoundTrip")()

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.Token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth retrying.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a throttling or gateway status, or a
// transport failure from the client. Encoding and decoding failures are final.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// PostJSON posts in as JSON to url and decodes a 2xx JSON response into out.
func PostJSON(ctx context.Context, client Client, url string, in, out any) error {
	defer perf.Track(nil, "http.PostJSON")()

	body, err := json.Marshal(in)
	if err != nil {
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).WithCause(err).Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).WithCause(err).Err()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).
			WithCause(err).
			WithContext("url", url).
			Err()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).WithCause(err).Err()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).
			WithCause(&StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}).
			WithContext("url", url).
			Err()
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errUtils.Build(errUtils.ErrHTTPRequestFailed).
			WithCause(err).
			WithExplanation("response is not valid JSON").
			Err()
	}
	return nil
}
