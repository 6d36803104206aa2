// Package services defines shared utilities consumed by the processing stages
// and the external integrations (ffmpeg, OCR engines, classifier services).
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and video paths for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep input,
//     configuration, and external tool failures distinguishable with
//     errors.Is.
//   - Cancellation classification so callers never persist a run that was
//     aborted part-way.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
