package alatapi

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

	"github.com/sarpras/alatclient/core/logger"
	"github.com/sarpras/alatclient/core/session"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the backend API root, e.g. "https://alat.example.id/api".
	BaseURL string `yaml:"base_url" env:"ALAT_API_URL"`
	// Timeout bounds each request end to end. Environment-only: the YAML
	// decoder has no duration syntax.
	Timeout time.Duration `yaml:"-" env:"ALAT_API_TIMEOUT" envDefault:"15s"`
}

// Client is the typed backend API client. Safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	log      *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Mostly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger sets the logger for request diagnostics.
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a backend client bound to the given session store, which
// supplies bearer tokens and receives auth-rejection signals.
func New(cfg Config, sessions *session.Store, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	if sessions == nil {
		return nil, fmt.Errorf("%w: session store is required", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Message string `json:"message"`
}

// do performs a JSON request. When authed is true the current session
// token is attached (an absent session short-circuits as ErrNoCredentials
// without sending anything) and a 401 response is routed through the
// session store's rejection policy before being surfaced as
// session.ErrAuthRejected.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("alatapi: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("alatapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		sess, err := c.sessions.Load(ctx)
		if err != nil {
			return errors.Join(ErrNoCredentials, err)
		}
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "backend request failed",
			logger.Method(method), logger.Path(path), logger.Error(err))
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "backend request",
		logger.Method(method), logger.Path(path),
		logger.StatusCode(resp.StatusCode), logger.Elapsed(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Join(ErrServer, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	var envelope errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if authed {
			cleared := c.sessions.HandleAuthRejected(ctx)
			c.log.InfoContext(ctx, "authentication rejected by backend",
				logger.Path(path), logger.Key("session_cleared", cleared))
		}
		return session.ErrAuthRejected
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if envelope.Message != "" {
			return fmt.Errorf("%w: %s (status %d)", ErrServer, envelope.Message, resp.StatusCode)
		}
		return fmt.Errorf("%w: unexpected status %d", ErrServer, resp.StatusCode)
	}
}
