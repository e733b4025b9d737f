package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/roombook/internal/logging"
)

// msgUnreachable is the generic transport failure message shown to users when
// no response reached the client.
const msgUnreachable = "Сервертэй холбогдож чадсангүй."

// TokenSource yields the bearer token attached to outgoing requests. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client issues JSON-over-HTTP calls against one configurable base URL. It
// performs no retries, caching, or deduplication: each service method maps to
// exactly one request.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a client for the given API base URL, for example
// "http://localhost:8000/api/v1".
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return NewClientWithLogger(baseURL, tokens, timeout, nil)
}

// NewClientWithLogger constructs a client with a specified logger. Outgoing
// requests are traced through otelhttp; the instrumentation is inert unless a
// trace exporter has been installed.
func NewClientWithLogger(baseURL string, tokens TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// serverError is the structured failure payload returned by the booking API.
type serverError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// do issues one request and decodes the response into out when out is non-nil.
// Failures are normalized into *Error with the fallback message applied when
// the server supplied none.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any, fallback string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Kind: KindDecode, Message: fallback, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Message: fallback, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := c.requestLogger(ctx, op, method, path, requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "request failed", "error", err, "duration", time.Since(start))
		return &Error{Op: op, Kind: KindTransport, Message: msgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read response", "error", err, "duration", time.Since(start))
		return &Error{Op: op, Kind: KindTransport, Message: msgUnreachable, Err: err}
	}

	logger.InfoContext(ctx, "request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return c.normalizeFailure(op, resp.StatusCode, payload, fallback)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Message: fallback, Err: fmt.Errorf("decode %s response: %w", op, err)}
	}
	return nil
}

// normalizeFailure converts an error response into the single error shape,
// preferring the structured server message over the fallback.
func (c *Client) normalizeFailure(op string, status int, payload []byte, fallback string) error {
	message := fallback
	var body serverError
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Error.Message != "" {
			message = body.Error.Message
		} else if body.Message != "" {
			message = body.Message
		}
	}

	kind := KindServer
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindUnauthorized
	}
	return &Error{Op: op, Kind: kind, Status: status, Message: message}
}

func (c *Client) requestLogger(ctx context.Context, op, method, path, requestID string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	return logger.With(
		"operation", op,
		"method", method,
		"path", path,
		"request_id", requestID,
	)
}
