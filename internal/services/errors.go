package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks unreadable or invalid video input (zero fps, zero frames).
	ErrInput = errors.New("input error")
	// ErrConfiguration marks settings rejected before processing begins.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks failures reported by ffmpeg, OCR engines or the classifier.
	ErrExternalTool = errors.New("external tool error")
	// ErrDecode marks a single frame that could not be decoded.
	ErrDecode = errors.New("frame decode error")
	// ErrNoPredictions marks a classification pass that produced no frames.
	ErrNoPredictions = errors.New("no predictions available")
	// ErrBusy marks a video that another run is already processing.
	ErrBusy = errors.New("video busy")
	// ErrTransient is the fallback marker for unclassified failures.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err stems from a cancelled or expired context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Fatal reports whether err must abort a run rather than degrade a single frame.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrDecode)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
