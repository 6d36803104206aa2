package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseg/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
	assert.False(t, exists, "config file should be absent in temp HOME")

	wantState := filepath.Join(tempHome, ".local", "share", "vidseg")
	assert.Equal(t, wantState, cfg.Paths.StateDir)
	assert.Equal(t, filepath.Join(wantState, "annotations.db"), cfg.StorePath())
	assert.Equal(t, 30, cfg.Classifier.SampleEvery)
	assert.Equal(t, 15, cfg.Classifier.SmoothingWindow)
	assert.Equal(t, 5.0, cfg.Classifier.MinDurationSec)
	assert.Equal(t, 10, cfg.Participants.FrameSkip)
	assert.Equal(t, 10, cfg.Participants.CardTimeoutFrames)
	assert.Equal(t, 5.0, cfg.Participants.SceneChangeThreshold)
	assert.Equal(t, config.DefaultTaskLabels, cfg.Classifier.Labels)

	require.NoError(t, cfg.EnsureDirectories())
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		assert.DirExists(t, dir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidseg.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Classifier struct {
			URL             string   `toml:"url"`
			Labels          []string `toml:"labels"`
			SampleEvery     int      `toml:"sample_every"`
			SmoothingWindow int      `toml:"smoothing_window"`
		} `toml:"classifier"`
		Participants struct {
			OCRBackend string `toml:"ocr_backend"`
			OCRURL     string `toml:"ocr_url"`
		} `toml:"participants"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Classifier.URL = "http://classifier.local:9000/"
	custom.Classifier.Labels = []string{" Suture", "Idle", "Suture", ""}
	custom.Classifier.SampleEvery = 5
	custom.Classifier.SmoothingWindow = 3
	custom.Participants.OCRBackend = "HTTP"
	custom.Participants.OCRURL = "http://ocr.local/"

	data, err := toml.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0o644))

	cfg, resolved, exists, err := config.Load(configPath)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, configPath, resolved)
	assert.Equal(t, "http://classifier.local:9000", cfg.Classifier.URL, "trailing slash trimmed")
	assert.Equal(t, []string{"Suture", "Idle"}, cfg.Classifier.Labels, "labels deduplicated")
	assert.Equal(t, 5, cfg.Classifier.SampleEvery)
	assert.Equal(t, 3, cfg.Classifier.SmoothingWindow)
	assert.Equal(t, "http", cfg.Participants.OCRBackend)
	assert.Equal(t, "http://ocr.local", cfg.Participants.OCRURL)
	assert.Equal(t, filepath.Join(tempDir, "state"), cfg.Paths.StateDir)
}

func TestLoadHonoursEnvironmentEndpoints(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDSEG_CLASSIFIER_URL", "http://env-classifier:1234")
	t.Setenv("VIDSEG_OCR_URL", "http://env-ocr:4321")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env-classifier:1234", cfg.Classifier.URL)
	assert.Equal(t, "http://env-ocr:4321", cfg.Participants.OCRURL)
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero sample stride", func(c *config.Config) { c.Classifier.SampleEvery = 0 }, "classifier.sample_every"},
		{"negative window", func(c *config.Config) { c.Classifier.SmoothingWindow = -1 }, "classifier.smoothing_window"},
		{"negative min duration", func(c *config.Config) { c.Classifier.MinDurationSec = -0.5 }, "classifier.min_duration_sec"},
		{"missing classifier url", func(c *config.Config) { c.Classifier.URL = "" }, "classifier.url"},
		{"zero frame skip", func(c *config.Config) { c.Participants.FrameSkip = 0 }, "participants.frame_skip"},
		{"zero card timeout", func(c *config.Config) { c.Participants.CardTimeoutFrames = 0 }, "participants.card_timeout_frames"},
		{"http ocr without url", func(c *config.Config) { c.Participants.OCRBackend = "http" }, "participants.ocr_url"},
		{"unknown ocr backend", func(c *config.Config) { c.Participants.OCRBackend = "magic" }, "participants.ocr_backend"},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateSkipsDisabledParticipants(t *testing.T) {
	cfg := config.Default()
	cfg.Participants.Enabled = false
	cfg.Participants.FrameSkip = 0
	assert.NoError(t, cfg.Validate())
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(target))

	cfg, _, exists, err := config.Load(target)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "tesseract", cfg.Participants.OCRBackend)
	assert.Equal(t, config.DefaultTaskLabels, cfg.Classifier.Labels)
}
