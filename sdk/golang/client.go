// SPDX-License-Identifier: MIT

// Package golang is a small client for a viewbadge server.
package golang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the server does not know the counter.
var ErrNotFound = errors.New("counter not found")

type Config struct {
	ServerURL  string
	AdminToken string        // required for Register
	Timeout    time.Duration // default: 10s
}

// BadgeOptions are the optional query parameters of a badge URL.
type BadgeOptions struct {
	Label      string
	Color      string
	LabelColor string
	Style      string
	Compact    bool
	// Peek renders without recording a view.
	Peek bool
}

type Client struct {
	config Config
	client *http.Client
}

// APIError is a non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func New(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("server url is required")
	}
	if _, err := url.Parse(cfg.ServerURL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Views returns the current total of a counter without recording a view.
func (c *Client) Views(ctx context.Context, key string) (int64, error) {
	var resp CounterResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/counters/"+url.PathEscape(key), false, &resp); err != nil {
		return 0, err
	}
	return resp.Views, nil
}

// Register creates a counter and reports whether it was new.
func (c *Client) Register(ctx context.Context, key string) (bool, error) {
	if c.config.AdminToken == "" {
		return false, errors.New("admin token is required")
	}
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/counters/"+url.PathEscape(key), true, &resp); err != nil {
		return false, err
	}
	return resp.Created, nil
}

// BadgeURL returns the URL of a counter's badge, for embedding in markdown.
func (c *Client) BadgeURL(key string, opts BadgeOptions) string {
	path := "/badge/" + url.PathEscape(key)
	if opts.Peek {
		path += "/peek"
	}

	q := url.Values{}
	if opts.Label != "" {
		q.Set("label", opts.Label)
	}
	if opts.Color != "" {
		q.Set("color", opts.Color)
	}
	if opts.LabelColor != "" {
		q.Set("labelColor", opts.LabelColor)
	}
	if opts.Style != "" {
		q.Set("style", opts.Style)
	}
	if opts.Compact {
		q.Set("compact", "1")
	}

	u := c.config.ServerURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, admin bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+c.config.AdminToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e errorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e) == nil {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
