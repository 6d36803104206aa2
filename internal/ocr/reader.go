package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"vidseg/internal/config"
)

// Reader recognises text in a single-channel frame.
type Reader interface {
	ReadText(ctx context.Context, img *image.Gray) (string, error)
}

// New returns the Reader selected by the participants configuration.
func New(cfg *config.Config) (Reader, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Participants.OCRBackend)); backend {
	case "", "tesseract":
		return NewTesseract(cfg.Tools.Tesseract)
	case "http":
		return NewHTTPReader(cfg.Participants.OCRURL, cfg.Classifier.TimeoutSeconds)
	default:
		return nil, fmt.Errorf("ocr: unsupported backend %q", backend)
	}
}

func encodePNG(img *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ocr: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
