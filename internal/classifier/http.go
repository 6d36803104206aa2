package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 5 * time.Second
	jpegQuality           = 90
)

// Config captures the settings required to reach the classification service.
type Config struct {
	BaseURL        string
	ModelVersion   string
	TimeoutSeconds int
}

// HTTPClient talks to a remote classification service.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client

	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetry overrides the retry policy.
func WithRetry(attempts int, baseDelay, maxDelay time.Duration) Option {
	return func(c *HTTPClient) {
		c.retryAttempts = attempts
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// NewHTTPClient constructs a classifier client.
func NewHTTPClient(cfg Config, opts ...Option) (*HTTPClient, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, errors.New("classifier: base url required")
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &HTTPClient{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: timeout},
		retryAttempts:  defaultRetryAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
		sleeper:        sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.retryAttempts < 1 {
		client.retryAttempts = 1
	}
	return client, nil
}

type classifyRequest struct {
	ModelVersion string   `json:"model_version,omitempty"`
	Frames       []string `json:"frames"`
}

type classifyResponse struct {
	Predictions []Prediction `json:"predictions"`
	Error       string       `json:"error,omitempty"`
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("classifier request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// ClassifyBatch sends frames to the service and returns its predictions.
func (c *HTTPClient) ClassifyBatch(ctx context.Context, frames []image.Image) ([]Prediction, error) {
	if len(frames) == 0 {
		return nil, nil
	}
	payload := classifyRequest{ModelVersion: c.cfg.ModelVersion, Frames: make([]string, 0, len(frames))}
	var buf bytes.Buffer
	for i, frame := range frames {
		buf.Reset()
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("classifier: encode frame %d: %w", i, err)
		}
		payload.Frames = append(payload.Frames, base64.StdEncoding.EncodeToString(buf.Bytes()))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("classifier: encode body: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		preds, err := c.send(ctx, body)
		if err == nil {
			if len(preds) != len(frames) {
				return nil, fmt.Errorf("classifier: expected %d predictions, got %d", len(frames), len(preds))
			}
			return preds, nil
		}
		lastErr = err
		if !retryable(ctx, err) || attempt == c.retryAttempts {
			break
		}
		if err := c.sleeper(ctx, c.backoff(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *HTTPClient) send(ctx context.Context, body []byte) ([]Prediction, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "classify")
	if err != nil {
		return nil, fmt.Errorf("classifier request: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("classifier request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("classifier request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	var decoded classifyResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("classifier request: decode body: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("classifier request: %s", decoded.Error)
	}
	return decoded.Predictions, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.StatusCode == http.StatusTooManyRequests || status.StatusCode >= 500
	}
	return !strings.Contains(err.Error(), "decode body")
}

func (c *HTTPClient) backoff(attempt int) time.Duration {
	delay := c.retryBaseDelay << (attempt - 1)
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		delay = c.retryMaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
