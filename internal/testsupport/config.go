package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidseg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Classifier.URL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithClassifierURL points the classifier at a test server.
func WithClassifierURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.URL = url
	}
}

// WithoutParticipants disables the participant card stage.
func WithoutParticipants() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Participants.Enabled = false
	}
}

// WithStubbedTool writes an executable shell script named name and points the
// matching tool setting at it. Supported names are ffmpeg, ffprobe and
// tesseract.
func WithStubbedTool(name, script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		switch name {
		case "ffmpeg":
			b.cfg.Tools.FFmpeg = target
		case "ffprobe":
			b.cfg.Tools.FFprobe = target
		case "tesseract":
			b.cfg.Tools.Tesseract = target
		default:
			b.t.Fatalf("unsupported stub tool %q", name)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
