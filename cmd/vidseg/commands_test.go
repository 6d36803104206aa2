package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"vidseg/internal/config"
	"vidseg/internal/testsupport"
)

type annotationOutput struct {
	VideoPath string `json:"video_path" yaml:"video_path"`
	Version   int    `json:"version" yaml:"version"`
	Processed bool   `json:"processed" yaml:"processed"`
	Segments  []struct {
		TaskName    string  `json:"task_name" yaml:"task_name"`
		StartTime   float64 `json:"start_time" yaml:"start_time"`
		EndTime     float64 `json:"end_time" yaml:"end_time"`
		Confidence  float64 `json:"confidence" yaml:"confidence"`
		Participant string  `json:"participant" yaml:"participant"`
	} `json:"segments" yaml:"segments"`
}

func TestProcessStoresAndPrintsAnnotation(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"process", "--json", env.videoPath}, env.configPath)
	require.NoError(t, err)
	var got annotationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, 1, got.Version)
	assert.True(t, got.Processed)
	require.Len(t, got.Segments, 1)
	seg := got.Segments[0]
	assert.Equal(t, "Idle", seg.TaskName)
	assert.Equal(t, 0.0, seg.StartTime)
	assert.Equal(t, 1.5, seg.EndTime)
	assert.Empty(t, seg.Participant)
	assert.NotZero(t, env.requests.Load(), "classifier was never called")

	st := testsupport.MustOpenStore(t, env.cfg)
	stored, err := st.Load(context.Background(), env.videoPath)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Version)
	assert.Len(t, stored.TaskSegments, 1)
}

func TestProcessDecodesOnlySampledFrames(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"process", "--json", env.videoPath}, env.configPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(env.ffmpegArgs)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Contains(t, args, "-noautorotate")
	assert.Contains(t, args, `select=not(mod(n\,5))`)
	assert.Contains(t, args, "passthrough")
}

func TestProcessTableOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"process", "--no-participants", env.videoPath}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Idle")
	assert.Contains(t, out, "0:01.50")
	assert.Contains(t, out, "No participant markers")
}

func TestProcessNewVersionAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	for _, args := range [][]string{
		{"process", env.videoPath},
		{"process", "--new-version", env.videoPath},
		{"process", env.videoPath},
	} {
		_, _, err := runCLI(t, args, env.configPath)
		require.NoError(t, err, "%v", args)
	}

	out, _, err := runCLI(t, []string{"versions", "--json", env.videoPath}, env.configPath)
	require.NoError(t, err)
	var versions []struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &versions), out)
	// The third run overwrites version 1 rather than adding a version.
	assert.Len(t, versions, 2)

	out, _, err = runCLI(t, []string{"versions", env.videoPath}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Version")
	assert.Contains(t, out, "Processed")

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, env.videoPath)
}

func TestShowFormats(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"process", env.videoPath}, env.configPath)
	require.NoError(t, err)
	_, _, err = runCLI(t, []string{"process", "--new-version", env.videoPath}, env.configPath)
	require.NoError(t, err)

	out, _, err := runCLI(t, []string{"show", "--format", "yaml", env.videoPath}, env.configPath)
	require.NoError(t, err)
	var latest annotationOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &latest), out)
	assert.Equal(t, 2, latest.Version)
	require.Len(t, latest.Segments, 1)
	assert.Equal(t, "Idle", latest.Segments[0].TaskName)

	out, _, err = runCLI(t, []string{"show", "--version", "1", "--format", "json", env.videoPath}, env.configPath)
	require.NoError(t, err)
	var first annotationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &first), out)
	assert.Equal(t, 1, first.Version)

	out, _, err = runCLI(t, []string{"show", env.videoPath}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Version:  2")
	assert.Contains(t, out, "Idle")

	_, _, err = runCLI(t, []string{"show", "--format", "xml", env.videoPath}, env.configPath)
	assert.Error(t, err, "expected unsupported format error")
}

func TestShowMissingAnnotation(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show", env.videoPath}, env.configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no annotation")

	_, _, err = runCLI(t, []string{"show", "--version", "3", env.videoPath}, env.configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 3")
}

func TestProcessMissingVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(filepath.Dir(env.videoPath), "missing.mp4")
	_, _, err := runCLI(t, []string{"process", missing}, env.configPath)
	require.Error(t, err)

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No annotations stored")
}

func TestHardwareReport(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"hardware", "--json"}, env.configPath)
	require.NoError(t, err)
	var report hardwareReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "cpu", report.Device)
	assert.GreaterOrEqual(t, report.ClassifierBatch, 4)
	assert.LessOrEqual(t, report.ClassifierBatch, 32)
	assert.GreaterOrEqual(t, report.OCRBatch, 2)
	assert.LessOrEqual(t, report.OCRBatch, 8)

	out, _, err = runCLI(t, []string{"hardware"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Classifier batch")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("VIDSEG_CLASSIFIER_URL", "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, env.configPath)
	assert.Contains(t, out, env.cfg.Classifier.URL)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration to "+target)
	assert.FileExists(t, target)

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	assert.Error(t, err, "expected error when config already exists")
	_, _, err = runCLI(t, []string{"config", "validate"}, target)
	assert.NoError(t, err)
}

func TestConfigInitReportsWrittenSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDSEG_CLASSIFIER_URL", "")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	require.NoError(t, err)

	defaults := config.Default()
	assert.Contains(t, out, "Classifier URL")
	assert.Contains(t, out, defaults.Classifier.URL)
	assert.Contains(t, out, "Task labels")
	for _, label := range config.DefaultTaskLabels {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "every 30 frames, window 15, min 5.0s")
	assert.Contains(t, out, "tesseract OCR, every 10 frames")

	_, _, err = runCLI(t, []string{"config", "init", "--overwrite", "--path", target}, "")
	assert.NoError(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00.00",
		1.5:    "0:01.50",
		75.25:  "1:15.25",
		3725.5: "1:02:05.50",
		-3:     "0:00.00",
	}
	for input, want := range cases {
		assert.Equal(t, want, formatTimestamp(input), "formatTimestamp(%v)", input)
	}
}

func TestStatusReportsDependenciesAndChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	// The stub classifier only serves /classify, so its health check fails.
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	require.Error(t, err)
	assert.Contains(t, out, "== Dependencies ==")
	assert.Contains(t, out, "FFprobe:")
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, "Classifier service:")
	assert.Contains(t, out, "[ERROR]")
}

func TestRenderStatusLine(t *testing.T) {
	assert.Equal(t, "  FFmpeg:              [WARN] missing", renderStatusLine("FFmpeg", statusWarn, "missing", false))

	colored := renderStatusLine("FFmpeg", statusOK, "", true)
	assert.Contains(t, colored, "FFmpeg:")
	assert.Contains(t, colored, "[OK]")

	assert.Equal(t, []string{"== Checks ==", strings.Repeat("-", 12)}, renderSectionHeader("Checks", false))
}
