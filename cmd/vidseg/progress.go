package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"vidseg/internal/logging"
	"vidseg/internal/processing"
)

const progressLogBucket = 5

// progressReporter draws a bar on terminals and falls back to sampled log
// lines everywhere else.
type progressReporter struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	stage   string
	sampler *logging.ProgressSampler
	logger  *slog.Logger
}

func newProgressReporter(w io.Writer, logger *slog.Logger) *progressReporter {
	r := &progressReporter{
		sampler: logging.NewProgressSampler(progressLogBucket),
		logger:  logging.NewComponentLogger(logger, "progress"),
	}
	if isTerminal(w) {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(processing.StageTasks),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *progressReporter) update(p processing.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		if p.Stage != r.stage {
			r.stage = p.Stage
			r.bar.Describe(p.Stage)
		}
		_ = r.bar.Set(int(p.Percent))
		return
	}
	if !r.sampler.ShouldLog(p.Stage, p.Percent) {
		return
	}
	r.logger.Info("progress",
		logging.String(logging.FieldStage, p.Stage),
		logging.Float64("percent", p.Percent),
		logging.Int("frame", p.Frame),
		logging.Int("total", p.Total),
	)
}

func (r *progressReporter) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
