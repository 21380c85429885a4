// Package hiapi is the JSON-over-HTTP provisioning backend. Every command is
// a POST to {base}/{command}; a reply carrying an "_error" key is a refusal.
package hiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/platform/tracing"
	"domainpanel/pkg/platform/sentinel"
	"domainpanel/pkg/requestcontext"
)

// Name is the backend name in configuration.
const Name = "hiapi"

const maxReplyBytes = 4 << 20

func init() {
	provisioning.Register(Name, func(opts provisioning.Options) (provisioning.Performer, error) {
		return New(opts.BaseURL, opts.Token, opts.Logger, WithTimeout(opts.Timeout))
	})
}

// Client calls the provisioning API over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL, token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("hiapi: base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Perform(ctx context.Context, call provisioning.Call) (res provisioning.Result, err error) {
	command := call.Command()
	ctx, span := tracing.Start(ctx, "hiapi "+command,
		attribute.String("provisioning.command", command),
		attribute.Bool("provisioning.batch", call.Batch),
	)
	defer func() { tracing.End(span, err) }()

	payload := call.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("hiapi: encoding %s payload: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+command, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hiapi: building %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hiapi: %s: %w: %w", command, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("hiapi: reading %s reply: %w", command, err)
	}
	c.logger.DebugContext(ctx, "hiapi call",
		"command", command,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("hiapi: %s returned %d: %w", command, resp.StatusCode, sentinel.ErrUnavailable)
	}

	var reply map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &reply); err != nil {
			return nil, fmt.Errorf("hiapi: decoding %s reply: %w", command, err)
		}
	}
	if msg, ok := reply["_error"]; ok {
		return nil, &provisioning.RemoteError{Command: command, Message: fmt.Sprint(msg)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &provisioning.RemoteError{Command: command, Message: http.StatusText(resp.StatusCode)}
	}
	return provisioning.Result(reply), nil
}
