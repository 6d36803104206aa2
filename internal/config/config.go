package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Tools names the external executables the engine shells out to.
type Tools struct {
	FFmpeg    string `toml:"ffmpeg"`
	FFprobe   string `toml:"ffprobe"`
	Tesseract string `toml:"tesseract"`
}

// Classifier contains the task classification and segmentation settings.
type Classifier struct {
	URL          string `toml:"url"`
	ModelVersion string `toml:"model_version"`
	// Labels fixes the vocabulary order. Smoothing ties resolve to the
	// earliest label in this list; when empty, first-seen order is used.
	Labels          []string `toml:"labels"`
	SampleEvery     int      `toml:"sample_every"`
	SmoothingWindow int      `toml:"smoothing_window"`
	MinDurationSec  float64  `toml:"min_duration_sec"`
	// BatchSize overrides the memory-budgeted batch size when positive.
	BatchSize      int `toml:"batch_size"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Participants contains the participant card detection settings.
type Participants struct {
	Enabled              bool    `toml:"enabled"`
	OCRBackend           string  `toml:"ocr_backend"`
	OCRURL               string  `toml:"ocr_url"`
	FrameSkip            int     `toml:"frame_skip"`
	CardTimeoutFrames    int     `toml:"card_timeout_frames"`
	SceneChangeThreshold float64 `toml:"scene_change_threshold"`
	MaxFrameHeight       int     `toml:"max_frame_height"`
	PrefetchBuffer       int     `toml:"prefetch_buffer"`
}

// Hardware describes the compute resources available for inference.
type Hardware struct {
	UseAccelerator      bool    `toml:"use_accelerator"`
	AcceleratorMemoryGB float64 `toml:"accelerator_memory_gb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidseg.
//
// Configuration sections by subsystem:
//   - Paths: annotation store and log directories
//   - Tools: ffmpeg, ffprobe and tesseract executables
//   - Classifier: frame classifier endpoint and segmentation knobs
//   - Participants: OCR backend and card session thresholds
//   - Hardware: accelerator availability for batch budgeting
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Tools        Tools        `toml:"tools"`
	Classifier   Classifier   `toml:"classifier"`
	Participants Participants `toml:"participants"`
	Hardware     Hardware     `toml:"hardware"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidseg/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidseg.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the annotation database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.StateDir, "annotations.db")
}

// LockDir returns the directory holding per-video processing locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
