package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request, retries excluded.
	DefaultTimeout = 10 * time.Second

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 32 << 20
)

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client performs GET requests with default headers, retries and an
// optional response cache. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a Client. Cached values are stored in c under the given
// namespace for ttl; a nil cache disables caching. Headers are applied to
// every request and may be nil.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Client{
		http:     NewHTTPClient(),
		cache:    cache.Namespace(c, namespace),
		ttl:      ttl,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// SetRetry overrides the retry policy. attempts below one mean a single try.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts = max(attempts, 1)
	c.delay = delay
}

// Cached loads key from the cache into v, or runs fetch and stores v on
// success. If refresh is true the cache is bypassed. fetch is retried for
// transient failures.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok && json.Unmarshal(data, v) == nil {
			return nil
		}
	}
	if err := Retry(ctx, c.attempts, c.delay, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	return c.GetWithHeaders(ctx, rawURL, nil, v)
}

// GetWithHeaders is GetJSON with extra headers. Request headers override
// client defaults with the same key.
func (c *Client) GetWithHeaders(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	resp, err := c.Fetch(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidJSON, err, "decode response from %s", redact(rawURL))
	}
	return nil
}

// GetBytes fetches rawURL and returns the body.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Fetch(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Fetch performs a GET with retries and returns the successful response.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	var resp *Response
	err := Retry(ctx, c.attempts, c.delay, func() error {
		r, err := c.do(ctx, rawURL, headers)
		resp = r
		return err
	})
	if err != nil {
		return nil, unwrapRetryable(err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid url %s", redact(rawURL))
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errs.Wrap(errs.ErrCodeTimeout, ctx.Err(), "GET %s", redact(rawURL))
		}
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", redact(rawURL))}
	}
	defer res.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, res.StatusCode, time.Since(start))

	if err := checkStatus(res); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, MaxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "read body of %s", redact(rawURL))}
	}
	return &Response{Status: res.StatusCode, Header: res.Header, Body: body}, nil
}

func checkStatus(res *http.Response) error {
	code := res.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errs.New(errs.ErrCodeNotFound, "%s not found", res.Request.URL.Path)
	case code == http.StatusTooManyRequests || (code == http.StatusForbidden && res.Header.Get("X-RateLimit-Remaining") == "0"):
		retryAfter, _ := strconv.Atoi(res.Header.Get("Retry-After"))
		rl := &errs.RateLimitedError{RetryAfter: retryAfter, Message: res.Status}
		err := errs.Wrap(errs.ErrCodeRateLimited, rl, "%s", res.Request.URL.Host)
		if code == http.StatusTooManyRequests {
			return &RetryableError{Err: err}
		}
		return err
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errs.New(errs.ErrCodeUnauthorized, "%s returned %d; provide a token", res.Request.URL.Host, code)
	case code >= 500:
		return &RetryableError{Err: errs.New(errs.ErrCodeNetwork, "%s returned %d", res.Request.URL.Host, code)}
	default:
		return errs.New(errs.ErrCodeNetwork, "%s returned %d", res.Request.URL.Host, code)
	}
}

// unwrapRetryable strips the retry marker once retries are exhausted so
// callers see the coded error.
func unwrapRetryable(err error) error {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

// redact drops credentials and the query string from a URL for messages.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("%q", rawURL)
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
