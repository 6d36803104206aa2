package segmentation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"vidseg/internal/classifier"
	"vidseg/internal/logging"
	"vidseg/internal/services"
	"vidseg/internal/video"
)

// maxConsecutiveDecodeFailures ends the stream when decoding keeps failing.
const maxConsecutiveDecodeFailures = 5

// ClassifyOptions configures the sampled classification pass.
type ClassifyOptions struct {
	SampleEvery int
	BatchSize   int
	FPS         float64
	TotalFrames int
	Logger      *slog.Logger
	// Progress receives the number of frames consumed so far.
	Progress func(frame, total int)
}

// Classify walks src once, decoding every SampleEvery-th frame and sending the
// decoded frames to clf in batches. Frames that fail to decode produce no
// prediction. Cancellation is checked before each batch is classified.
func Classify(ctx context.Context, src video.Source, clf classifier.Classifier, opts ClassifyOptions) ([]FramePrediction, error) {
	if opts.SampleEvery <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "options", fmt.Sprintf("sample_every must be positive, got %d", opts.SampleEvery), nil)
	}
	if opts.FPS <= 0 {
		return nil, services.Wrap(services.ErrInput, "classify", "options", fmt.Sprintf("invalid frame rate %.3f", opts.FPS), nil)
	}
	batchSize := max(opts.BatchSize, 1)
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var (
		preds    []FramePrediction
		batch    = make([]image.Image, 0, batchSize)
		indices  = make([]int, 0, batchSize)
		failures int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		results, err := clf.ClassifyBatch(ctx, batch)
		if err != nil {
			if services.IsCancellation(err) {
				return err
			}
			return services.Wrap(services.ErrExternalTool, "classify", "classify batch", "", err)
		}
		if len(results) != len(batch) {
			return services.Wrap(services.ErrExternalTool, "classify", "classify batch",
				fmt.Sprintf("classifier returned %d predictions for %d frames", len(results), len(batch)), nil)
		}
		for i, r := range results {
			preds = append(preds, FramePrediction{
				FrameIndex: indices[i],
				TimeSec:    float64(indices[i]) / opts.FPS,
				Label:      r.Label,
				Confidence: r.Confidence,
			})
		}
		batch = batch[:0]
		indices = indices[:0]
		return nil
	}

	for frame := 0; ; frame++ {
		if opts.Progress != nil {
			opts.Progress(frame, opts.TotalFrames)
		}
		var (
			img image.Image
			err error
		)
		sampled := frame%opts.SampleEvery == 0
		if sampled {
			img, err = src.Decode()
		} else {
			err = src.Skip()
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, services.ErrDecode) {
			failures++
			logging.WarnWithContext(logger, "frame decode failed", "decode_error",
				logging.Int("frame", frame),
				logging.Error(err),
				logging.String(logging.FieldImpact, "frame has no prediction"),
			)
			if failures >= maxConsecutiveDecodeFailures {
				logger.Warn("decode failures persisted; treating as end of stream", logging.Int("frame", frame))
				break
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		failures = 0
		if !sampled {
			continue
		}
		batch = append(batch, img)
		indices = append(indices, frame)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	logger.Debug("classification pass complete", logging.Int("predictions", len(preds)))
	return preds, nil
}
