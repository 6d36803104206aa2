// Package logging assembles structured slog loggers and formatting helpers used
// across vidseg.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with run IDs, stages, and video paths. The package also
// provides a no-op logger for tests and a progress sampler that keeps
// per-frame progress reporting readable.
package logging
