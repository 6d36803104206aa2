package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
)

const charWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin io.Reader) ([]byte, error)
}

// Option configures the Tesseract reader.
type Option func(*Tesseract)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *Tesseract) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// Tesseract wraps the tesseract CLI.
type Tesseract struct {
	binary string
	exec   Executor
}

// NewTesseract constructs a Tesseract reader.
func NewTesseract(binary string, opts ...Option) (*Tesseract, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("tesseract binary required")
	}
	t := &Tesseract{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ReadText pipes img to tesseract as PNG and returns the trimmed output.
func (t *Tesseract) ReadText(ctx context.Context, img *image.Gray) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	args := []string{
		"stdin", "stdout",
		"--psm", "6",
		"-c", "tessedit_char_whitelist=" + charWhitelist + " ",
	}
	out, err := t.exec.Run(ctx, t.binary, args, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
