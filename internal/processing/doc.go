// Package processing runs the full analysis of one video: probe, task
// classification and segmentation, then participant card detection.
//
// Processor owns collaborator construction (ffprobe, ffmpeg, classifier and
// OCR clients), guards each video with a file lock so concurrent runs cannot
// interleave, tags every run with a UUID for log correlation, and reports
// progress through two weighted stages. A run that fails or is cancelled
// returns no annotation; callers persist only completed results.
package processing
