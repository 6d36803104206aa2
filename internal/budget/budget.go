package budget

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"vidseg/internal/logging"
)

// Task identifies an inference stage.
type Task string

const (
	TaskClassifier Task = "classifier"
	TaskOCR        Task = "ocr"
)

type profile struct {
	fraction  float64
	baseMB    float64
	perItemMB float64
	minBatch  int
	maxBatch  int
}

type taskProfiles struct {
	accelerator profile
	cpu         profile
}

var profiles = map[Task]taskProfiles{
	TaskClassifier: {
		accelerator: profile{fraction: 0.6, baseMB: 100, perItemMB: 2.5, minBatch: 8, maxBatch: 128},
		cpu:         profile{fraction: 0.3, baseMB: 50, perItemMB: 5, minBatch: 4, maxBatch: 32},
	},
	TaskOCR: {
		accelerator: profile{fraction: 0.5, baseMB: 200, perItemMB: 75, minBatch: 4, maxBatch: 32},
		cpu:         profile{fraction: 0.2, baseMB: 100, perItemMB: 100, minBatch: 2, maxBatch: 8},
	},
}

// BatchSize returns the batch size for task. The accelerator pool is used only
// when useAccelerator is set and reports memory; otherwise system memory is
// budgeted. Unknown tasks use the classifier profile. The result never falls
// outside the task range.
func BatchSize(task Task, useAccelerator bool, acceleratorGB, systemGB float64) int {
	tp, ok := profiles[task]
	if !ok {
		tp = profiles[TaskClassifier]
	}
	p, memGB := tp.cpu, systemGB
	if useAccelerator && acceleratorGB > 0 {
		p, memGB = tp.accelerator, acceleratorGB
	}
	usable := memGB*p.fraction*1024 - p.baseMB
	size := int(usable / p.perItemMB)
	return min(max(size, p.minBatch), p.maxBatch)
}

// Hardware summarizes the memory pools available for inference.
type Hardware struct {
	UseAccelerator bool
	AcceleratorGB  float64
	SystemGB       float64
}

// Detect combines configured accelerator memory with the probed system memory.
func Detect(useAccelerator bool, acceleratorGB float64) Hardware {
	return Hardware{
		UseAccelerator: useAccelerator,
		AcceleratorGB:  acceleratorGB,
		SystemGB:       float64(systemMemoryBytes()) / (1 << 30),
	}
}

// BatchSize applies the policy to this hardware profile.
func (h Hardware) BatchSize(task Task) int {
	return BatchSize(task, h.UseAccelerator, h.AcceleratorGB, h.SystemGB)
}

// Accelerated reports whether the accelerator pool drives budgeting.
func (h Hardware) Accelerated() bool {
	return h.UseAccelerator && h.AcceleratorGB > 0
}

// LogHardware records the hardware profile and the batch sizes it yields.
func LogHardware(logger *slog.Logger, h Hardware) {
	if logger == nil {
		return
	}
	device := "cpu"
	if h.Accelerated() {
		device = "accelerator"
	}
	logger.Info("hardware profile",
		logging.String("device", device),
		logging.String("system_memory", humanize.IBytes(uint64(h.SystemGB*(1<<30)))),
		logging.String("accelerator_memory", humanize.IBytes(uint64(h.AcceleratorGB*(1<<30)))),
		logging.Int("classifier_batch", h.BatchSize(TaskClassifier)),
		logging.Int("ocr_batch", h.BatchSize(TaskOCR)),
	)
}
