package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPReader posts frames to a remote OCR service.
type HTTPReader struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPReader constructs an HTTP OCR reader.
func NewHTTPReader(baseURL string, timeoutSeconds int) (*HTTPReader, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ocr: base url required")
	}
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &HTTPReader{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}, nil
}

type readRequest struct {
	Image string `json:"image"`
}

type readResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ReadText sends img to <url>/read and returns the recognised text.
func (r *HTTPReader) ReadText(ctx context.Context, img *image.Gray) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(readRequest{Image: base64.StdEncoding.EncodeToString(data)})
	if err != nil {
		return "", fmt.Errorf("ocr request: encode body: %w", err)
	}
	endpoint, err := url.JoinPath(r.baseURL, "read")
	if err != nil {
		return "", fmt.Errorf("ocr request: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ocr request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ocr request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	var decoded readResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("ocr request: decode body: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("ocr request: %s", decoded.Error)
	}
	return strings.TrimSpace(decoded.Text), nil
}
