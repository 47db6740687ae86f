// Package backend is the single gateway to the remote eSIM REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
	session *session.Session
	logger  *slog.Logger
}

func New(cfg Config, sess *session.Session, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		session: sess,
		logger:  logger,
	}
}

type requestOptions struct {
	query  url.Values
	header http.Header
}

type RequestOption func(*requestOptions)

func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) { o.query = q }
}

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Set(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, in any, opts []RequestOption) (json.RawMessage, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	u := c.base + path
	if len(o.query) > 0 {
		u += "?" + o.query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range o.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	sess := c.sessionFor(ctx)
	if sess != nil {
		tok, err := sess.Token(ctx)
		if err != nil {
			// an unreadable store behaves like a logged-out session
			c.logger.Warn("backend: token unavailable", "error", err)
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, c.transportError(method, path, err)
	}
	defer resp.Body.Close()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}

	if resp.StatusCode/100 != 2 {
		if resp.StatusCode == http.StatusUnauthorized && sess != nil {
			if err := sess.Clear(ctx); err != nil {
				c.logger.Error("backend: failed to clear expired token", "error", err)
			} else {
				c.logger.Info("backend: token cleared after 401", "path", path)
			}
		}
		return nil, &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: raw}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// sessionFor prefers the caller's session carried in ctx over the one the
// client was built with.
func (c *Client) sessionFor(ctx context.Context) *session.Session {
	if s := session.FromContext(ctx); s != nil {
		return s
	}
	return c.session
}

func (c *Client) transportError(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Method: method, Path: path, Timeout: c.timeout, Err: err}
	}
	return &NetworkError{Method: method, Path: path, Err: err}
}
