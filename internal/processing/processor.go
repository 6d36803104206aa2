package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vidseg/internal/annotation"
	"vidseg/internal/budget"
	"vidseg/internal/classifier"
	"vidseg/internal/config"
	"vidseg/internal/logging"
	"vidseg/internal/ocr"
	"vidseg/internal/participants"
	"vidseg/internal/segmentation"
	"vidseg/internal/services"
	"vidseg/internal/textutil"
	"vidseg/internal/video"
)

// Options adjusts a single run.
type Options struct {
	SkipParticipants bool
}

// Processor analyses videos into annotations.
type Processor struct {
	cfg        *config.Config
	base       *slog.Logger
	logger     *slog.Logger
	prober     video.Prober
	opener     video.Opener
	classifier classifier.Classifier
	reader     ocr.Reader
	hardware   func() budget.Hardware
}

// Option customizes a Processor.
type Option func(*Processor)

// WithProber overrides metadata probing.
func WithProber(p video.Prober) Option {
	return func(proc *Processor) {
		if p != nil {
			proc.prober = p
		}
	}
}

// WithOpener overrides frame decoding.
func WithOpener(o video.Opener) Option {
	return func(proc *Processor) {
		if o != nil {
			proc.opener = o
		}
	}
}

// WithClassifier overrides the frame classifier.
func WithClassifier(c classifier.Classifier) Option {
	return func(proc *Processor) {
		if c != nil {
			proc.classifier = c
		}
	}
}

// WithOCRReader overrides the OCR backend.
func WithOCRReader(r ocr.Reader) Option {
	return func(proc *Processor) {
		if r != nil {
			proc.reader = r
		}
	}
}

// WithHardware overrides hardware detection.
func WithHardware(h budget.Hardware) Option {
	return func(proc *Processor) {
		proc.hardware = func() budget.Hardware { return h }
	}
}

// New validates cfg and constructs a Processor with default collaborators.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Processor, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "processing", "new", "config required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "processing", "validate config", "", err)
	}
	proc := &Processor{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "processing"),
		prober: video.FFprobe{Binary: cfg.Tools.FFprobe},
		opener: video.FFmpegOpener{Binary: cfg.Tools.FFmpeg},
		hardware: func() budget.Hardware {
			return budget.Detect(cfg.Hardware.UseAccelerator, cfg.Hardware.AcceleratorMemoryGB)
		},
	}
	for _, opt := range opts {
		opt(proc)
	}

	if proc.classifier == nil {
		client, err := classifier.NewHTTPClient(classifier.Config{
			BaseURL:        cfg.Classifier.URL,
			ModelVersion:   cfg.Classifier.ModelVersion,
			TimeoutSeconds: cfg.Classifier.TimeoutSeconds,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "processing", "classifier", "", err)
		}
		proc.classifier = client
	}
	if proc.reader == nil && cfg.Participants.Enabled {
		reader, err := ocr.New(cfg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "processing", "ocr", "", err)
		}
		proc.reader = reader
	}
	return proc, nil
}

// LockPath returns the lock file guarding videoPath.
func LockPath(cfg *config.Config, videoPath string) string {
	return filepath.Join(cfg.LockDir(), textutil.PathToken(videoPath)+".lock")
}

// Process analyses videoPath and returns a completed annotation. Cancellation
// errors are returned unchanged.
func (p *Processor) Process(ctx context.Context, videoPath string, opts Options, progress ProgressFunc) (*annotation.VideoAnnotation, error) {
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "processing", "resolve path", videoPath, err)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithVideo(ctx, absPath)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()

	unlock, err := p.acquireLock(absPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("release processing lock failed", logging.Error(err))
		}
	}()

	meta, err := p.prober.Probe(ctx, absPath)
	if err != nil {
		return nil, err
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	logger.Info("processing started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Float64("fps", meta.FPS),
		logging.Int("frames", meta.FrameCount),
		logging.Float64("duration_sec", meta.DurationSec),
	)

	segments, err := p.analyseTasks(ctx, meta, progress)
	if err != nil {
		return nil, err
	}

	markers := []annotation.ParticipantMarker{}
	if p.cfg.Participants.Enabled && !opts.SkipParticipants {
		markers, err = p.detectParticipants(ctx, meta, progress)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("participant detection skipped")
	}

	ann := &annotation.VideoAnnotation{
		VideoPath:          absPath,
		RunID:              runID,
		ModelVersion:       p.cfg.Classifier.ModelVersion,
		DurationSec:        meta.DurationSec,
		FPS:                meta.FPS,
		FrameCount:         meta.FrameCount,
		CreatedAt:          time.Now(),
		TaskSegments:       segments,
		ParticipantMarkers: markers,
		Processed:          true,
	}
	if progress != nil {
		progress(Progress{Stage: StageComplete, Percent: 100, Frame: meta.FrameCount, Total: meta.FrameCount})
	}
	logger.Info("processing complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("segments", len(segments)),
		logging.Int("markers", len(markers)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return ann, nil
}

func (p *Processor) acquireLock(videoPath string) (func() error, error) {
	if err := os.MkdirAll(p.cfg.LockDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(LockPath(p.cfg, videoPath))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire processing lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "processing", "lock", videoPath+" is already being processed", nil)
	}
	return lock.Unlock, nil
}

func (p *Processor) analyseTasks(ctx context.Context, meta video.Metadata, progress ProgressFunc) ([]annotation.TaskSegment, error) {
	ctx = services.WithStage(ctx, StageTasks)
	logger := logging.WithContext(ctx, p.logger)

	hw := p.hardware()
	budget.LogHardware(logger, hw)
	batchSize := p.cfg.Classifier.BatchSize
	if batchSize <= 0 {
		batchSize = hw.BatchSize(budget.TaskClassifier)
	}

	src, err := p.opener.Open(ctx, meta, p.cfg.Classifier.SampleEvery)
	if err != nil {
		return nil, err
	}
	defer closeSource(src, logger)

	preds, err := segmentation.Classify(ctx, src, p.classifier, segmentation.ClassifyOptions{
		SampleEvery: p.cfg.Classifier.SampleEvery,
		BatchSize:   batchSize,
		FPS:         meta.FPS,
		TotalFrames: meta.FrameCount,
		Logger:      logger,
		Progress:    scaled(progress, StageTasks, 0, 50),
	})
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, services.Wrap(services.ErrNoPredictions, StageTasks, "classify", "no frames were classified", nil)
	}

	segments := segmentation.Segment(preds, segmentation.SegmentOptions{
		Window:         p.cfg.Classifier.SmoothingWindow,
		MinDurationSec: p.cfg.Classifier.MinDurationSec,
		Vocabulary:     p.cfg.Classifier.Labels,
	})
	if err := annotation.CheckContiguous(segments); err != nil {
		return nil, fmt.Errorf("segment invariant violated: %w", err)
	}
	logger.Info("task segmentation complete",
		logging.Int("predictions", len(preds)),
		logging.Int("segments", len(segments)),
		logging.Int("batch_size", batchSize),
	)
	return segments, nil
}

func (p *Processor) detectParticipants(ctx context.Context, meta video.Metadata, progress ProgressFunc) ([]annotation.ParticipantMarker, error) {
	ctx = services.WithStage(ctx, StageParticipants)
	logger := logging.WithContext(ctx, p.logger)
	if p.reader == nil {
		return nil, services.Wrap(services.ErrConfiguration, StageParticipants, "ocr", "no OCR reader configured", nil)
	}

	src, err := p.opener.Open(ctx, meta, p.cfg.Participants.FrameSkip)
	if err != nil {
		return nil, err
	}
	defer closeSource(src, logger)

	detector := participants.NewDetector(p.reader, participants.OptionsFromConfig(p.cfg.Participants), p.base)
	return detector.Run(ctx, src, meta, scaled(progress, StageParticipants, 50, 50))
}

func closeSource(src video.Source, logger *slog.Logger) {
	if err := src.Close(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("close frame source", logging.Error(err))
	}
}
