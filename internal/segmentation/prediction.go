package segmentation

// FramePrediction is the classifier output for one sampled frame.
type FramePrediction struct {
	FrameIndex int
	TimeSec    float64
	Label      string
	Confidence float64
}

// run is a maximal same-label range of predictions, inclusive on both ends.
type run struct {
	start int
	end   int
	label string
}

func (r run) duration(preds []FramePrediction) float64 {
	return preds[r.end].TimeSec - preds[r.start].TimeSec
}

func partition(preds []FramePrediction) []run {
	if len(preds) == 0 {
		return nil
	}
	runs := make([]run, 0, 8)
	current := run{start: 0, end: 0, label: preds[0].Label}
	for i := 1; i < len(preds); i++ {
		if preds[i].Label == current.label {
			current.end = i
			continue
		}
		runs = append(runs, current)
		current = run{start: i, end: i, label: preds[i].Label}
	}
	return append(runs, current)
}
