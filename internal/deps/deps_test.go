package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseg/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	present := filepath.Join(t.TempDir(), "present")
	require.NoError(t, os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	require.Len(t, results, len(reqs))

	assert.True(t, results[0].Available)
	assert.Empty(t, results[0].Detail)

	assert.False(t, results[1].Available)
	assert.NotEmpty(t, results[1].Detail)
	assert.Equal(t, "clearly-not-present-binary", results[1].Command)

	assert.False(t, results[2].Available)
	assert.Equal(t, "command not configured", results[2].Detail)
}

func TestRequirementsFollowOCRBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	reqs := Requirements(cfg)
	require.Len(t, reqs, 3)
	assert.Equal(t, "Tesseract", reqs[2].Name)
	assert.False(t, reqs[2].Optional, "required with the default backend")

	cfg.Participants.OCRBackend = "http"
	assert.True(t, Requirements(cfg)[2].Optional, "optional with the http backend")

	cfg = testsupport.NewConfig(t, testsupport.WithoutParticipants())
	assert.True(t, Requirements(cfg)[2].Optional, "optional without participant detection")
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "FFprobe", Available: true},
		{Name: "FFmpeg", Available: false},
		{Name: "Tesseract", Available: false, Optional: true},
	}
	missing := Missing(statuses)
	require.Len(t, missing, 1)
	assert.Equal(t, "FFmpeg", missing[0].Name)
}
