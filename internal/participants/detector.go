package participants

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"vidseg/internal/annotation"
	"vidseg/internal/config"
	"vidseg/internal/logging"
	"vidseg/internal/ocr"
	"vidseg/internal/services"
	"vidseg/internal/video"
)

// Options configures participant detection.
type Options struct {
	FrameSkip            int
	CardTimeoutFrames    int
	SceneChangeThreshold float64
	MaxFrameHeight       int
	PrefetchBuffer       int
}

// OptionsFromConfig extracts detection options from the participants section.
func OptionsFromConfig(cfg config.Participants) Options {
	return Options{
		FrameSkip:            cfg.FrameSkip,
		CardTimeoutFrames:    cfg.CardTimeoutFrames,
		SceneChangeThreshold: cfg.SceneChangeThreshold,
		MaxFrameHeight:       cfg.MaxFrameHeight,
		PrefetchBuffer:       cfg.PrefetchBuffer,
	}
}

func (o Options) validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"frame_skip", o.FrameSkip},
		{"card_timeout_frames", o.CardTimeoutFrames},
		{"prefetch_buffer", o.PrefetchBuffer},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return services.Wrap(services.ErrConfiguration, "participants", "options", fmt.Sprintf("%s must be positive, got %d", c.name, c.value), nil)
		}
	}
	return nil
}

// Detector finds participant cards in a video.
type Detector struct {
	reader ocr.Reader
	opts   Options
	logger *slog.Logger
}

// NewDetector constructs a Detector.
func NewDetector(reader ocr.Reader, opts Options, logger *slog.Logger) *Detector {
	return &Detector{
		reader: reader,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "participants"),
	}
}

// Run scans src and returns the detected markers ordered by timestamp.
// progress, when set, receives the latest consumed frame number.
func (d *Detector) Run(ctx context.Context, src video.Source, meta video.Metadata, progress func(frame, total int)) ([]annotation.ParticipantMarker, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if err := d.opts.validate(); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, d.logger)

	group, gctx := errgroup.WithContext(ctx)
	frames := make(chan frameItem, d.opts.PrefetchBuffer)
	group.Go(func() error {
		return produceFrames(gctx, src, d.opts.FrameSkip, d.opts.MaxFrameHeight, frames, logger)
	})

	tracker := NewSessionTracker(meta.FPS, d.opts.CardTimeoutFrames)
	group.Go(func() error {
		return d.consume(gctx, frames, tracker, meta.FrameCount, progress)
	})

	if err := group.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	markers := tracker.Finish(meta.FrameCount)
	if progress != nil {
		progress(meta.FrameCount, meta.FrameCount)
	}
	logger.Info("participant detection complete", logging.Int("markers", len(markers)))
	return markers, nil
}

func (d *Detector) consume(ctx context.Context, frames <-chan frameItem, tracker *SessionTracker, total int, progress func(frame, total int)) error {
	var (
		prevFrame  *image.Gray
		prevResult *Card
		carding    bool
	)
	for item := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if item.img == nil {
			tracker.Observe(item.frame, nil)
			continue
		}

		if !carding && prevFrame != nil && video.MeanAbsDiff(prevFrame, item.img) < d.opts.SceneChangeThreshold {
			prevFrame = item.img
			tracker.Observe(item.frame, prevResult)
			continue
		}

		text, err := d.reader.ReadText(ctx, item.img)
		if err != nil {
			if services.IsCancellation(err) {
				return err
			}
			return services.Wrap(services.ErrExternalTool, "participants", "ocr", fmt.Sprintf("frame %d", item.frame), err)
		}
		prevResult = nil
		if card, ok := ParseCard(text); ok {
			prevResult = &card
		}
		prevFrame = item.img
		carding = prevResult != nil
		tracker.Observe(item.frame, prevResult)

		if progress != nil {
			progress(item.frame, total)
		}
	}
	return nil
}
