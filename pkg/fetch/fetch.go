// Package fetch retrieves component source from the remote component API.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gnana997/blocksmith/pkg/config"
)

var (
	// ErrMissingCredential means no API key was configured.
	ErrMissingCredential = errors.New("api key not configured")
	// ErrInvalidCredential means the API rejected the key (HTTP 401).
	ErrInvalidCredential = errors.New("api key rejected")
	// ErrNotFound means the API has no component with that name (HTTP 404).
	ErrNotFound = errors.New("component not found")
)

// StatusError is any other non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api request failed: %s", e.Status)
	}
	return fmt.Sprintf("api request failed: %s: %s", e.Status, e.Body)
}

// Component is the API's answer for one component.
type Component struct {
	Code         string   `json:"code"`
	Dependencies []string `json:"dependencies"`
}

// response accepts both field names the API has used for the source text.
type response struct {
	Code         string   `json:"code"`
	Source       string   `json:"source"`
	Dependencies []string `json:"dependencies"`
}

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
	maxBody        = 8 << 20
)

// Client talks to the component API.
type Client struct {
	baseURL    string
	creds      config.Credentials
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for baseURL using already resolved credentials.
func NewClient(baseURL string, creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the named component. Imports are returned as served;
// callers apply FixImports before saving.
func (c *Client) Fetch(ctx context.Context, name string) (*Component, error) {
	if !c.creds.Present() {
		return nil, ErrMissingCredential
	}

	endpoint := c.baseURL + "/components/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching component", "url", endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("component api responded",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidCredential
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	code := payload.Code
	if code == "" {
		code = payload.Source
	}
	if code == "" {
		return nil, fmt.Errorf("response for %s contains no source", name)
	}

	return &Component{Code: code, Dependencies: payload.Dependencies}, nil
}

var framerMotionImport = regexp.MustCompile(`from\s+['"]framer-motion['"]`)

// FixImports rewrites framer-motion imports to motion/react.
func FixImports(code string) string {
	return framerMotionImport.ReplaceAllString(code, `from "motion/react"`)
}
