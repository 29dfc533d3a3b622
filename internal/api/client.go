package api

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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Cookie/2.0"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables throttling
	UserAgent string
	Transport http.RoundTripper // nil uses http.DefaultTransport
}

// Client talks to the cookie API. It implements domain.SearchRepository,
// domain.ReviewRepository, domain.UserRepository, domain.MatchUpRepository
// and domain.Authenticator.
type Client struct {
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger

	public *http.Client // used while no token is set
	authed *http.Client // attaches the bearer token

	mu    sync.RWMutex
	token string
}

// NewClient creates a new API client
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", domain.ErrNotConfigured)
	}
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: base URL: %v", domain.ErrInvalidInput, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		token:     opts.Token,
	}
	c.public = &http.Client{Timeout: opts.Timeout, Transport: base}
	c.authed = &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Source: tokenSource{c},
			Base:   base,
		},
	}
	return c, nil
}

// tokenSource hands the client's current token to oauth2.Transport
type tokenSource struct {
	c *Client
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	token := s.c.Token()
	if token == "" {
		return nil, domain.ErrAuthFailed
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// SetToken updates the access token used for subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current access token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the configured server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) httpClient() *http.Client {
	if c.Token() == "" {
		return c.public
	}
	return c.authed
}

// doRequest performs a request and returns the raw body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.logger.Debug("api request", "method", method, "url", reqURL, "request_id", requestID)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := newStatusError(resp.StatusCode, respBody)
		c.logger.Error("api request error", "method", method, "path", path, "status", resp.StatusCode,
			"request_id", requestID, "message", statusErr.Message)
		return nil, statusErr
	}

	return respBody, nil
}

// getEnvelope performs a GET and parses the response envelope
func (c *Client) getEnvelope(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return parseEnvelope(body)
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code    int
	Message string
}

func newStatusError(code int, body []byte) *StatusError {
	msg := ""
	if gjson.ValidBytes(body) {
		root := gjson.ParseBytes(body)
		msg = firstString(root, "message", "error", "response")
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &StatusError{Code: code, Message: msg}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Unwrap maps the status onto the domain sentinel errors
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrUnexpectedStatus
	}
}

// IsAuthError reports whether err means the session is no longer valid
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrAuthFailed)
}
