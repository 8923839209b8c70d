package vinwiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds every call, connection through body read
	DefaultTimeout = 20 * time.Second
	// MaxRedirects is the number of redirects followed before a call fails
	MaxRedirects = 2
	// DefaultUserAgent is sent when no user agent option is given
	DefaultUserAgent = "vinwiki-go"
)

var errTooManyRedirects = errors.New("redirect limit exceeded")

// Request describes a single call to the VINwiki API.
type Request struct {
	Method string
	URL    string
	// Fields are form encoded into the body of POST requests
	Fields url.Values
	// Bearer is sent as an Authorization header when non-empty
	Bearer string
}

// Transport performs exactly one HTTP round trip and returns the buffered
// response body. Implementations must not retry.
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// HTTPTransport is the net/http backed Transport
type HTTPTransport struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewHTTPTransport creates a transport using client, or a new client with
// DefaultTimeout when client is nil. The redirect policy is always applied
// to a copy, the caller's client is left untouched.
func NewHTTPTransport(client *http.Client, userAgent string, logger zerolog.Logger) *HTTPTransport {
	var c http.Client
	if client != nil {
		c = *client
	} else {
		c.Timeout = DefaultTimeout
	}
	c.CheckRedirect = limitRedirects

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPTransport{
		client:    &c,
		userAgent: userAgent,
		logger:    logger,
	}
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) > MaxRedirects {
		return fmt.Errorf("%w: stopped after %d redirects", errTooManyRedirects, MaxRedirects)
	}
	return nil
}

// Do performs the request
func (t *HTTPTransport) Do(ctx context.Context, r Request) ([]byte, error) {
	var body io.Reader
	if r.Method == http.MethodPost {
		body = strings.NewReader(r.Fields.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if r.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.Bearer)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug().
			Err(err).
			Str("method", r.Method).
			Str("url", r.URL).
			Dur("elapsed", time.Since(start)).
			Msg("VINwiki request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	t.logger.Debug().
		Str("method", r.Method).
		Str("url", r.URL).
		Int("status", resp.StatusCode).
		Bool("bearer", r.Bearer != "").
		Dur("elapsed", time.Since(start)).
		Msg("VINwiki request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
