// Package video probes input files and exposes them as sequential frame
// sources.
//
// Probe resolves frame rate, frame count and dimensions through ffprobe and
// Validate rejects inputs the engine cannot process. FFmpegOpener streams
// decoded rgb24 frames from an ffmpeg child process, upright per the
// container's rotation metadata. Callers advance with Skip when a frame is not
// sampled and Decode when it is; frames outside the stride passed to Open
// never leave ffmpeg. PrepareGray and
// MeanAbsDiff implement the deterministic downscale and frame difference
// used by the participant card stage.
package video
