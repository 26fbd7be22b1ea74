package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Common errors.
var (
	ErrNotFound         = errors.New("http: resource not found")
	ErrForbidden        = errors.New("http: access forbidden")
	ErrUnauthorized     = errors.New("http: unauthorized")
	ErrServerError      = errors.New("http: server error")
	ErrUnexpectedStatus = errors.New("http: unexpected status code")
	ErrTooLarge         = errors.New("http: response exceeds size limit")
	ErrClosed           = errors.New("http: client closed")
)

// Options configures the HTTP client.
type Options struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 20
	MaxIdleConnsPerHost int

	// Timeout for individual requests, including reading the body.
	// Default: 30s
	Timeout time.Duration

	// MaxSize caps the accepted body size in bytes. Zero means no limit.
	MaxSize int64

	// UserAgent is sent with every request when set.
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 20,
		Timeout:             30 * time.Second,
	}
}

// Client is the HTTP session for one batch run. It is safe for concurrent use.
type Client struct {
	client    *http.Client
	transport *http.Transport
	opts      Options

	mu     sync.RWMutex
	closed bool
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = DefaultOptions().MaxIdleConnsPerHost
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		transport: transport,
		opts:      opts,
	}
}

// Fetch downloads the resource at ref.
//
// An empty ref yields an Absent result without touching the network. Any
// transport error or non-2xx status yields a Failed result.
func (c *Client) Fetch(ctx context.Context, ref string) Result {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Absent()
	}

	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return Failed(ErrClosed)
	}

	body, err := c.get(ctx, ref)
	if err != nil {
		return Failed(err)
	}
	return Bytes(body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatusCode(resp.StatusCode); err != nil {
		// Drain a little so the connection can go back to the pool.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, err
	}

	if c.opts.MaxSize > 0 {
		if resp.ContentLength > c.opts.MaxSize {
			return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, resp.ContentLength, c.opts.MaxSize)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxSize+1))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if int64(len(body)) > c.opts.MaxSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.opts.MaxSize)
		}
		return body, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Close ends the session and releases pooled connections. Fetches after
// Close fail with ErrClosed. Close does not wait for in-flight fetches.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.transport.CloseIdleConnections()
	return nil
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
}
