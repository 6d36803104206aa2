package segmentation

import "vidseg/internal/annotation"

// Aggregate collapses predictions into contiguous segments. A segment ends at
// the time of the frame that starts the next one, and the final segment ends
// at the last frame. Segment confidence is the mean of its frames' raw
// confidences. Empty input yields nil.
func Aggregate(preds []FramePrediction) []annotation.TaskSegment {
	if len(preds) == 0 {
		return nil
	}
	runs := partition(preds)
	segments := make([]annotation.TaskSegment, 0, len(runs))
	for idx, r := range runs {
		end := preds[len(preds)-1].TimeSec
		if idx < len(runs)-1 {
			end = preds[runs[idx+1].start].TimeSec
		}
		var total float64
		for f := r.start; f <= r.end; f++ {
			total += preds[f].Confidence
		}
		segments = append(segments, annotation.TaskSegment{
			TaskName:   r.label,
			StartTime:  preds[r.start].TimeSec,
			EndTime:    end,
			Confidence: total / float64(r.end-r.start+1),
		})
	}
	return segments
}

// SegmentOptions configures the post-classification pipeline.
type SegmentOptions struct {
	Window         int
	MinDurationSec float64
	Vocabulary     []string
}

// Segment smooths, enforces and aggregates predictions.
func Segment(preds []FramePrediction, opts SegmentOptions) []annotation.TaskSegment {
	smoothed := Smooth(preds, opts.Window, opts.Vocabulary)
	return Aggregate(Enforce(smoothed, opts.MinDurationSec))
}
