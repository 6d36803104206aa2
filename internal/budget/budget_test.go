package budget

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchSize(t *testing.T) {
	tests := []struct {
		name   string
		task   Task
		accel  bool
		gpuGB  float64
		sysGB  float64
		expect int
	}{
		{"classifier accelerator mid", TaskClassifier, true, 0.5, 64, 82},
		{"classifier accelerator clamps high", TaskClassifier, true, 24, 64, 128},
		{"classifier accelerator clamps low", TaskClassifier, true, 0.01, 64, 8},
		{"classifier cpu", TaskClassifier, false, 0, 0.5, 20},
		{"classifier cpu clamps high", TaskClassifier, false, 0, 64, 32},
		{"classifier cpu no memory", TaskClassifier, false, 0, 0, 4},
		{"accelerator flag without memory uses cpu", TaskClassifier, true, 0, 0, 4},
		{"ocr accelerator", TaskOCR, true, 2, 0, 10},
		{"ocr accelerator clamps high", TaskOCR, true, 16, 0, 32},
		{"ocr cpu", TaskOCR, false, 0, 3, 5},
		{"ocr cpu clamps", TaskOCR, false, 0, 0.1, 2},
		{"unknown task uses classifier", Task("depth"), false, 0, 0.5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, BatchSize(tt.task, tt.accel, tt.gpuGB, tt.sysGB))
		})
	}
}

func TestHardwareBatchSizeMatchesPolicy(t *testing.T) {
	h := Hardware{UseAccelerator: true, AcceleratorGB: 8, SystemGB: 16}
	assert.True(t, h.Accelerated())
	assert.Equal(t, BatchSize(TaskOCR, true, 8, 16), h.BatchSize(TaskOCR))
}

func TestLogHardware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	LogHardware(logger, Hardware{SystemGB: 2})
	out := buf.String()
	assert.True(t, strings.Contains(out, "device=cpu"), out)
	assert.True(t, strings.Contains(out, `system_memory="2.0 GiB"`), out)
	assert.True(t, strings.Contains(out, "classifier_batch=32"), out)
	LogHardware(nil, Hardware{})
}
