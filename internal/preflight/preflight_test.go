package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseg/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	assert.True(t, result.Passed, result.Detail)
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	assert.False(t, result.Passed)
	assert.NotEmpty(t, result.Detail)
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	assert.False(t, CheckDirectoryAccess("test", f).Passed)
}

func TestCheckService_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckService(context.Background(), "Classifier", srv.URL+"/")
	assert.True(t, result.Passed, result.Detail)
}

func TestCheckService_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := CheckService(context.Background(), "Classifier", srv.URL)
	assert.False(t, result.Passed)
	assert.Equal(t, "health check failed (503)", result.Detail)
}

func TestCheckService_MissingURL(t *testing.T) {
	result := CheckService(context.Background(), "OCR", " ")
	assert.False(t, result.Passed)
	assert.Equal(t, "missing url", result.Detail)
}

func TestCheckService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := srv.URL
	srv.Close()

	assert.False(t, CheckService(context.Background(), "Classifier", addr).Passed)
}

func TestRunAllGatesOCRService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithClassifierURL(srv.URL))
	require.NoError(t, cfg.EnsureDirectories())

	results := RunAll(context.Background(), cfg)
	require.Len(t, results, 3, "tesseract backend has no OCR service check")
	for _, r := range results {
		assert.True(t, r.Passed, "%s: %s", r.Name, r.Detail)
	}

	cfg.Participants.OCRBackend = "http"
	cfg.Participants.OCRURL = srv.URL
	results = RunAll(context.Background(), cfg)
	require.Len(t, results, 4)
	assert.Equal(t, "OCR service", results[3].Name)
	assert.True(t, results[3].Passed, results[3].Detail)
}

func TestCheckSystemDepsUsesConfiguredTools(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedTool("ffprobe", "exit 0"),
		testsupport.WithStubbedTool("ffmpeg", "exit 0"),
	)
	cfg.Tools.Tesseract = "clearly-not-present-tesseract"

	statuses := CheckSystemDeps(cfg)
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Available, "ffprobe stub")
	assert.True(t, statuses[1].Available, "ffmpeg stub")
	assert.False(t, statuses[2].Available, "tesseract")
}
