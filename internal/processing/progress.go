package processing

// Stage names reported through ProgressFunc.
const (
	StageTasks        = "Analysing tasks"
	StageParticipants = "Detecting participants"
	StageComplete     = "Complete"
)

// Progress is a snapshot of overall run progress.
type Progress struct {
	Stage   string
	Percent float64
	Frame   int
	Total   int
}

// ProgressFunc receives progress updates. It is called from the processing
// goroutine and must not block for long.
type ProgressFunc func(Progress)

// scaled maps frame progress within a stage onto [base, base+span].
func scaled(fn ProgressFunc, stage string, base, span float64) func(frame, total int) {
	if fn == nil {
		return nil
	}
	return func(frame, total int) {
		pct := base
		if total > 0 {
			pct += span * min(float64(frame)/float64(total), 1)
		}
		fn(Progress{Stage: stage, Percent: pct, Frame: frame, Total: total})
	}
}
