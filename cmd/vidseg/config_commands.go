package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidseg/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Scaffold or check the vidseg configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration and show the settings it selects",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if err := writeSampleConfig(target, overwrite); err != nil {
				return err
			}
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			printConfigSummary(out, cfg)
			fmt.Fprintf(out, "Point classifier.url at your classifier service (currently %s) or export VIDSEG_CLASSIFIER_URL.\n", cfg.Classifier.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(path))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source += " (not found, using defaults)"
			}
			fmt.Fprintf(out, "Config path: %s\n", source)
			printConfigSummary(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// initTarget resolves where config init writes, defaulting to the per-user
// config location.
func initTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(raw)
}

func writeSampleConfig(target string, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}
	return nil
}

// printConfigSummary lists the settings that decide how a video is segmented.
func printConfigSummary(out io.Writer, cfg *config.Config) {
	c := cfg.Classifier
	labels := "first-seen order"
	if len(c.Labels) > 0 {
		labels = fmt.Sprintf("%d (%s)", len(c.Labels), strings.Join(c.Labels, ", "))
	}
	participants := "disabled"
	if cfg.Participants.Enabled {
		participants = fmt.Sprintf("%s OCR, every %d frames", cfg.Participants.OCRBackend, cfg.Participants.FrameSkip)
	}

	rows := [][]string{
		{"Classifier URL", c.URL},
		{"Model version", c.ModelVersion},
		{"Task labels", labels},
		{"Sampling", fmt.Sprintf("every %d frames, window %d, min %.1fs", c.SampleEvery, c.SmoothingWindow, c.MinDurationSec)},
		{"Participants", participants},
		{"Annotation store", cfg.StorePath()},
	}
	fmt.Fprintln(out, renderTable([]column{col("Setting"), col("Value")}, rows))
}
