package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	"vidseg/internal/config"
	"vidseg/internal/testsupport"
)

// probeJSON describes a 2 second, 10 fps, 4x2 clip.
const probeJSON = `{"streams":[{"index":0,"codec_type":"video","width":4,"height":2,"r_frame_rate":"10/1","avg_frame_rate":"10/1","nb_frames":"20","duration":"2.0"}],"format":{"duration":"2.0"}}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	videoPath  string
	ffmpegArgs string
	requests   *atomic.Int32
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req struct {
			Frames []string `json:"frames"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		preds := make([]map[string]any, len(req.Frames))
		for i := range preds {
			preds[i] = map[string]any{"label": "Idle", "confidence": 0.9}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"predictions": preds})
	}))
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithClassifierURL(srv.URL),
		testsupport.WithoutParticipants(),
		testsupport.WithStubbedTool("ffprobe", "cat <<'JSON'\n"+probeJSON+"\nJSON"),
		// Records its arguments, then emits 4x2 rgb24 frames: only frames
		// 0, 5, 10 and 15 when a select filter is requested, all 20 otherwise.
		testsupport.WithStubbedTool("ffmpeg", `printf '%s\n' "$@" > "$0.args"
case "$*" in
*select=*) head -c 96 /dev/zero ;;
*) head -c 480 /dev/zero ;;
esac`),
	)
	cfg.Classifier.SampleEvery = 5
	cfg.Classifier.SmoothingWindow = 1
	cfg.Classifier.MinDurationSec = 0

	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	videoPath := filepath.Join(base, "videos", "clip.mp4")
	testsupport.WriteFile(t, videoPath, 64)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		videoPath:  videoPath,
		ffmpegArgs: cfg.Tools.FFmpeg + ".args",
		requests:   &requests,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
