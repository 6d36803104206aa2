package video

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vidseg/internal/media/ffprobe"
	"vidseg/internal/services"
)

// Metadata describes the properties of a video the engine depends on.
type Metadata struct {
	Path        string  `json:"path"`
	FPS         float64 `json:"fps"`
	FrameCount  int     `json:"frame_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DurationSec float64 `json:"duration_sec"`
	// Rotation is the clockwise display rotation in degrees. Width and Height
	// stay the coded size.
	Rotation int `json:"rotation,omitempty"`
}

// FrameSize returns the size of decoded frames once Rotation is applied.
func (m Metadata) FrameSize() (width, height int) {
	if m.Rotation == 90 || m.Rotation == 270 {
		return m.Height, m.Width
	}
	return m.Width, m.Height
}

// Validate rejects metadata that cannot drive either processing stage.
func (m Metadata) Validate() error {
	if m.FPS <= 0 {
		return services.Wrap(services.ErrInput, "probe", "validate", fmt.Sprintf("invalid frame rate %.3f for %s", m.FPS, m.Path), nil)
	}
	if m.FrameCount <= 0 {
		return services.Wrap(services.ErrInput, "probe", "validate", fmt.Sprintf("invalid frame count %d for %s", m.FrameCount, m.Path), nil)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return services.Wrap(services.ErrInput, "probe", "validate", fmt.Sprintf("invalid dimensions %dx%d for %s", m.Width, m.Height, m.Path), nil)
	}
	return nil
}

// TimeAt converts a frame index into seconds.
func (m Metadata) TimeAt(frame int) float64 {
	if m.FPS <= 0 {
		return 0
	}
	return float64(frame) / m.FPS
}

// Prober resolves metadata for a video path.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// FFprobe implements Prober with the ffprobe CLI.
type FFprobe struct {
	Binary string
}

// Probe inspects path and returns its video metadata. Missing files and
// unreadable containers are reported as input errors.
func (p FFprobe) Probe(ctx context.Context, path string) (Metadata, error) {
	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrInput, "probe", "stat", "video not readable", err)
	}
	if info.IsDir() {
		return Metadata{}, services.Wrap(services.ErrInput, "probe", "stat", path+" is a directory", nil)
	}

	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		if services.IsCancellation(ctx.Err()) {
			return Metadata{}, ctx.Err()
		}
		return Metadata{}, services.Wrap(services.ErrInput, "probe", "ffprobe", "inspect video", err)
	}
	return FromProbe(path, result), nil
}

// FromProbe builds Metadata from a parsed ffprobe result.
func FromProbe(path string, result ffprobe.Result) Metadata {
	meta := Metadata{
		Path:       path,
		FPS:        result.FrameRate(),
		FrameCount: result.FrameCount(),
	}
	if stream, ok := result.VideoStream(); ok {
		meta.Width = stream.Width
		meta.Height = stream.Height
		meta.Rotation = stream.Rotation()
	}
	if d := result.DurationSeconds(); d > 0 {
		meta.DurationSec = d
	} else if meta.FPS > 0 {
		meta.DurationSec = float64(meta.FrameCount) / meta.FPS
	}
	return meta
}
