// Package preflight provides readiness checks for the external services,
// binaries and directories vidseg depends on.
//
// The CLI "vidseg status" command runs these checks so operators can spot a
// missing ffmpeg or an unreachable classifier before starting a long run.
// Checks are gated by configuration: the OCR service is only probed when
// participant detection uses the http backend.
package preflight
