package clip

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

	"github.com/google/uuid"

	"github.com/heimdex/clipper/internal/logging"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 10 * time.Minute
	EndpointPath   = "/clip"

	maxResponseBytes = 1 << 20
)

// Options configures an HTTPClient. Zero values fall back to the defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// HTTPClient talks to the clipping service over HTTP.
// One call to Clip issues exactly one POST; nothing is retried.
type HTTPClient struct {
	baseURL    *url.URL
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// The deadline is enforced per call through the context, so the
	// http.Client itself carries no timeout.
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &HTTPClient{
		baseURL:    base,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logging.WithComponent(logger, "clip_client"),
	}, nil
}

// Endpoint returns the absolute URL requests are posted to.
func (c *HTTPClient) Endpoint() string {
	return c.baseURL.JoinPath(EndpointPath).String()
}

func (c *HTTPClient) Clip(ctx context.Context, videoURL string) (*Result, error) {
	body, err := json.Marshal(Request{URL: videoURL})
	if err != nil {
		return nil, fmt.Errorf("marshal clip request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()
	endpoint := c.Endpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	logger := logging.WithRequestID(c.logger, requestID)
	logger.Info("submitting clip request",
		"endpoint", endpoint,
		"source", logging.SanitizeURL(videoURL),
		"timeout", c.timeout.String(),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(ctx, "read response", err)
	}

	logger.Info("clip service replied",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"body_bytes", len(respBody),
	)

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &TransportError{Op: "decode response", Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(parsed.Error)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	if strings.TrimSpace(parsed.VideoURL) == "" {
		return nil, &TransportError{Op: "decode response", Err: fmt.Errorf("%w: video_url missing", ErrMalformedResponse)}
	}

	resolved, err := c.ResolveVideoURL(parsed.VideoURL)
	if err != nil {
		return nil, &TransportError{Op: "decode response", Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	logger.Info("clip ready", "video_url", resolved)
	return &Result{VideoURL: resolved, RequestID: requestID}, nil
}

// ResolveVideoURL turns the service's video_url into an absolute URL. The
// service answers with paths such as "/clip_abc.mp4" that it serves itself.
func (c *HTTPClient) ResolveVideoURL(raw string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse video_url: %w", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *HTTPClient) transportError(ctx context.Context, op string, err error) error {
	timeout := errors.Is(ctx.Err(), context.DeadlineExceeded)
	return &TransportError{Op: op, Err: err, Timeout: timeout}
}
