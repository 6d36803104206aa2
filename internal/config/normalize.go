package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeClassifier()
	c.normalizeParticipants()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = orDefault(c.Tools.FFmpeg, defaultFFmpegBinary)
	c.Tools.FFprobe = orDefault(c.Tools.FFprobe, defaultFFprobeBinary)
	c.Tools.Tesseract = orDefault(c.Tools.Tesseract, defaultTesseractBinary)
}

func (c *Config) normalizeClassifier() {
	if value, ok := os.LookupEnv("VIDSEG_CLASSIFIER_URL"); ok && strings.TrimSpace(value) != "" {
		c.Classifier.URL = value
	}
	c.Classifier.URL = strings.TrimRight(strings.TrimSpace(c.Classifier.URL), "/")
	c.Classifier.ModelVersion = orDefault(c.Classifier.ModelVersion, defaultModelVersion)

	labels := make([]string, 0, len(c.Classifier.Labels))
	seen := make(map[string]struct{}, len(c.Classifier.Labels))
	for _, label := range c.Classifier.Labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	c.Classifier.Labels = labels
}

func (c *Config) normalizeParticipants() {
	if value, ok := os.LookupEnv("VIDSEG_OCR_URL"); ok && strings.TrimSpace(value) != "" {
		c.Participants.OCRURL = value
	}
	c.Participants.OCRURL = strings.TrimRight(strings.TrimSpace(c.Participants.OCRURL), "/")
	c.Participants.OCRBackend = strings.ToLower(strings.TrimSpace(c.Participants.OCRBackend))
	if c.Participants.OCRBackend == "" {
		c.Participants.OCRBackend = defaultOCRBackend
	}
	if c.Participants.PrefetchBuffer <= 0 {
		c.Participants.PrefetchBuffer = defaultPrefetchBuffer
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
