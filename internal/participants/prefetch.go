package participants

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"

	"vidseg/internal/logging"
	"vidseg/internal/services"
	"vidseg/internal/video"
)

const maxConsecutiveDecodeFailures = 5

// frameItem is one sampled frame. A nil img marks a frame that failed to
// decode.
type frameItem struct {
	frame int
	img   *image.Gray
}

// produceFrames decodes every frameSkip-th frame of src, prepares it and
// sends it on out. It closes out when the stream ends or ctx is done.
func produceFrames(ctx context.Context, src video.Source, frameSkip, maxHeight int, out chan<- frameItem, logger *slog.Logger) error {
	defer close(out)

	send := func(item frameItem) error {
		select {
		case out <- item:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	failures := 0
	for n := 0; ; n++ {
		if n%frameSkip != 0 {
			err := src.Skip()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil && !errors.Is(err, services.ErrDecode) {
				return err
			}
			continue
		}

		img, err := src.Decode()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, services.ErrDecode):
			failures++
			logging.WarnWithContext(logger, "frame decode failed", "decode_error",
				logging.Int("frame", n),
				logging.Error(err),
				logging.String(logging.FieldImpact, "frame treated as no card"),
			)
			if failures >= maxConsecutiveDecodeFailures {
				logger.Warn("decode failures persisted; treating as end of stream", logging.Int("frame", n))
				return nil
			}
			if err := send(frameItem{frame: n}); err != nil {
				return err
			}
			continue
		case err != nil:
			return err
		}
		failures = 0
		if err := send(frameItem{frame: n, img: video.PrepareGray(img, maxHeight)}); err != nil {
			return err
		}
	}
}
