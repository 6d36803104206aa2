package preflight

import (
	"context"

	"vidseg/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckService(ctx, "Classifier service", cfg.Classifier.URL),
	}

	if cfg.Participants.Enabled && cfg.Participants.OCRBackend == "http" {
		results = append(results, CheckService(ctx, "OCR service", cfg.Participants.OCRURL))
	}

	return results
}
