package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"vidseg/internal/services"
)

// FFmpegOpener decodes videos by piping rawvideo out of an ffmpeg child.
type FFmpegOpener struct {
	Binary string
}

// Open starts ffmpeg for meta.Path. The child is terminated on Close or
// when ctx is cancelled.
func (o FFmpegOpener) Open(ctx context.Context, meta Metadata, every int) (Source, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	binary := strings.TrimSpace(o.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary, decodeArgs(meta, every)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", "open stdout", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", "start", err)
	}

	width, height := meta.FrameSize()
	src, err := NewRawSource(stdout, width, height, every)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, services.Wrap(services.ErrInput, "decode", "ffmpeg", "frame size", err)
	}
	var once sync.Once
	var closeErr error
	src.(*rawSource).closer = func() error {
		once.Do(func() {
			_ = stdout.Close()
			_ = cmd.Process.Kill()
			err := cmd.Wait()
			var exitErr *exec.ExitError
			if err != nil && !errors.As(err, &exitErr) {
				closeErr = services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", strings.TrimSpace(stderr.String()), err)
			}
		})
		return closeErr
	}
	return src, nil
}

// decodeArgs builds the ffmpeg command line for meta. Autorotation is off and
// the rotation ffprobe reported is applied explicitly, so the piped frame size
// always equals meta.FrameSize. Frames outside the sampling stride are
// dropped inside ffmpeg and passthrough sync keeps the rest from being
// duplicated or dropped.
func decodeArgs(meta Metadata, every int) []string {
	var filters []string
	if every > 1 {
		filters = append(filters, fmt.Sprintf(`select=not(mod(n\,%d))`, every))
	}
	switch meta.Rotation {
	case 90:
		filters = append(filters, "transpose=clock")
	case 180:
		filters = append(filters, "hflip", "vflip")
	case 270:
		filters = append(filters, "transpose=cclock")
	}

	args := []string{
		"-v", "error", "-nostdin",
		"-noautorotate",
		"-i", meta.Path,
		"-map", "0:v:0", "-an", "-sn",
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	return append(args,
		"-vsync", "passthrough",
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"-",
	)
}
