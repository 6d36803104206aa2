package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseg/internal/config"
)

type recordingExecutor struct {
	binary string
	args   []string
	stdin  []byte
	output string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string, stdin io.Reader) ([]byte, error) {
	r.binary = binary
	r.args = append([]string(nil), args...)
	data, _ := io.ReadAll(stdin)
	r.stdin = data
	return []byte(r.output), r.err
}

func testFrame() *image.Gray {
	return image.NewGray(image.Rect(0, 0, 4, 3))
}

func TestTesseractReadText(t *testing.T) {
	exec := &recordingExecutor{output: "  Participant 4\n\n"}
	reader, err := NewTesseract("/usr/bin/tesseract", WithExecutor(exec))
	require.NoError(t, err)
	text, err := reader.ReadText(context.Background(), testFrame())
	require.NoError(t, err)
	assert.Equal(t, "Participant 4", text)

	assert.Equal(t, "/usr/bin/tesseract", exec.binary)
	require.GreaterOrEqual(t, len(exec.args), 2)
	assert.Equal(t, []string{"stdin", "stdout"}, exec.args[:2])
	img, err := png.Decode(bytes.NewReader(exec.stdin))
	require.NoError(t, err, "stdin was not a png")
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestTesseractPropagatesErrors(t *testing.T) {
	reader, err := NewTesseract("tesseract", WithExecutor(&recordingExecutor{err: errors.New("exit status 1")}))
	require.NoError(t, err)
	_, err = reader.ReadText(context.Background(), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")

	_, err = NewTesseract(" ")
	assert.Error(t, err, "empty binary")
}

func TestHTTPReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/read" {
			http.NotFound(w, r)
			return
		}
		var req readRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(readResponse{Text: " Expert 12 "})
	}))
	defer server.Close()

	reader, err := NewHTTPReader(server.URL+"/", 5)
	require.NoError(t, err)
	text, err := reader.ReadText(context.Background(), testFrame())
	require.NoError(t, err)
	assert.Equal(t, "Expert 12", text)
}

func TestHTTPReaderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	reader, err := NewHTTPReader(server.URL, 0)
	require.NoError(t, err)
	_, err = reader.ReadText(context.Background(), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default()
	reader, err := New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, reader)

	cfg.Participants.OCRBackend = "http"
	cfg.Participants.OCRURL = "http://127.0.0.1:9000"
	reader, err = New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &HTTPReader{}, reader)

	cfg.Participants.OCRBackend = "paddle"
	_, err = New(&cfg)
	assert.Error(t, err, "unsupported backend")
}
