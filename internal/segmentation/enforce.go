package segmentation

// Enforce relabels runs shorter than minDuration to match their longer
// neighbour until every run meets the minimum or only one run remains. The
// earliest offending run is merged first and ties go to the left neighbour.
// Run duration is the time between its first and last frame.
func Enforce(preds []FramePrediction, minDuration float64) []FramePrediction {
	out := make([]FramePrediction, len(preds))
	copy(out, preds)
	if len(out) < 2 || minDuration <= 0 {
		return out
	}

	runs := partition(out)
	// Every run before i is known to meet the minimum.
	for i := 0; i < len(runs); {
		if runs[i].duration(out) >= minDuration {
			i++
			continue
		}
		left, right := -1.0, -1.0
		if i > 0 {
			left = runs[i-1].duration(out)
		}
		if i < len(runs)-1 {
			right = runs[i+1].duration(out)
		}

		var target int
		switch {
		case left >= right && left >= 0:
			target = i - 1
		case right >= 0:
			target = i + 1
		default:
			i++
			continue
		}
		runs, i = mergeRun(runs, i, target)
	}

	for _, r := range runs {
		for f := r.start; f <= r.end; f++ {
			out[f].Label = r.label
		}
	}
	return out
}

// mergeRun relabels runs[i] with the label of runs[target] and coalesces the
// resulting same-label neighbours. It returns the new run list and the index
// of the merged run.
func mergeRun(runs []run, i, target int) ([]run, int) {
	label := runs[target].label
	lo, hi := min(i, target), max(i, target)
	if lo > 0 && runs[lo-1].label == label {
		lo--
	}
	if hi < len(runs)-1 && runs[hi+1].label == label {
		hi++
	}
	merged := run{start: runs[lo].start, end: runs[hi].end, label: label}
	runs[lo] = merged
	runs = append(runs[:lo+1], runs[hi+1:]...)
	return runs, lo
}
