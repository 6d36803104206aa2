package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateParticipants(); err != nil {
		return err
	}
	if err := c.validateHardware(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if strings.TrimSpace(c.Classifier.URL) == "" {
		return errors.New("classifier.url must be set (or export VIDSEG_CLASSIFIER_URL)")
	}
	if err := ensurePositiveMap(map[string]int{
		"classifier.sample_every":     c.Classifier.SampleEvery,
		"classifier.smoothing_window": c.Classifier.SmoothingWindow,
		"classifier.timeout_seconds":  c.Classifier.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Classifier.MinDurationSec < 0 {
		return errors.New("classifier.min_duration_sec must be zero or positive")
	}
	if c.Classifier.BatchSize < 0 {
		return errors.New("classifier.batch_size must be zero (auto) or positive")
	}
	return nil
}

func (c *Config) validateParticipants() error {
	if !c.Participants.Enabled {
		return nil
	}
	if err := ensurePositiveMap(map[string]int{
		"participants.frame_skip":          c.Participants.FrameSkip,
		"participants.card_timeout_frames": c.Participants.CardTimeoutFrames,
		"participants.max_frame_height":    c.Participants.MaxFrameHeight,
		"participants.prefetch_buffer":     c.Participants.PrefetchBuffer,
	}); err != nil {
		return err
	}
	if c.Participants.SceneChangeThreshold < 0 {
		return errors.New("participants.scene_change_threshold must be zero or positive")
	}
	switch c.Participants.OCRBackend {
	case "tesseract":
	case "http":
		if c.Participants.OCRURL == "" {
			return errors.New("participants.ocr_url must be set when participants.ocr_backend is \"http\"")
		}
	default:
		return fmt.Errorf("participants.ocr_backend: unsupported value %q", c.Participants.OCRBackend)
	}
	return nil
}

func (c *Config) validateHardware() error {
	if c.Hardware.AcceleratorMemoryGB < 0 {
		return errors.New("hardware.accelerator_memory_gb must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
