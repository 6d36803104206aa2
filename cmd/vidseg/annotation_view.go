package main

import (
	"fmt"
	"math"
	"strings"

	"vidseg/internal/annotation"
)

// segmentView is the exported shape of a segment with its participant.
type segmentView struct {
	annotation.TaskSegment `yaml:",inline"`
	Participant            string `json:"participant,omitempty" yaml:"participant,omitempty"`
}

// annotationView pairs an annotation with per-segment participant labels.
type annotationView struct {
	annotation.VideoAnnotation `yaml:",inline"`
	Segments                   []segmentView `json:"segments" yaml:"segments"`
}

func newAnnotationView(ann *annotation.VideoAnnotation) annotationView {
	view := annotationView{VideoAnnotation: *ann, Segments: make([]segmentView, 0, len(ann.TaskSegments))}
	for _, seg := range ann.TaskSegments {
		label, _ := ann.ParticipantFor(seg)
		view.Segments = append(view.Segments, segmentView{TaskSegment: seg, Participant: label})
	}
	return view
}

func renderAnnotation(ann *annotation.VideoAnnotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video:    %s\n", ann.VideoPath)
	fmt.Fprintf(&b, "Version:  %d\n", ann.Version)
	fmt.Fprintf(&b, "Duration: %s (%.2f fps, %d frames)\n", formatTimestamp(ann.DurationSec), ann.FPS, ann.FrameCount)
	fmt.Fprintf(&b, "Processed: %s\n", yesNo(ann.Processed))
	if ann.RunID != "" {
		fmt.Fprintf(&b, "Run:      %s\n", ann.RunID)
	}
	b.WriteString("\n")

	view := newAnnotationView(ann)
	rows := make([][]string, 0, len(view.Segments))
	for i, seg := range view.Segments {
		participant := seg.Participant
		if participant == "" {
			participant = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			seg.TaskName,
			formatTimestamp(seg.StartTime),
			formatTimestamp(seg.EndTime),
			fmt.Sprintf("%.1fs", seg.Duration()),
			fmt.Sprintf("%.2f", seg.Confidence),
			participant,
		})
	}
	b.WriteString(renderTable([]column{
		numCol("#"), col("Task"), numCol("Start"), numCol("End"), numCol("Duration"), numCol("Confidence"), col("Participant"),
	}, rows))
	b.WriteString("\n")

	if len(ann.ParticipantMarkers) == 0 {
		b.WriteString("\nNo participant markers\n")
		return b.String()
	}
	markerRows := make([][]string, 0, len(ann.ParticipantMarkers))
	for _, m := range ann.ParticipantMarkers {
		markerRows = append(markerRows, []string{
			m.Label(),
			formatTimestamp(m.Timestamp),
			fmt.Sprintf("%.2fs", m.Duration),
			fmt.Sprintf("%.2f", m.Confidence),
		})
	}
	b.WriteString("\n")
	b.WriteString(renderTable([]column{
		col("Participant"), numCol("Shown"), numCol("Duration"), numCol("Confidence"),
	}, markerRows))
	b.WriteString("\n")
	return b.String()
}

// formatTimestamp renders seconds as m:ss.ss (or h:mm:ss.ss).
func formatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%05.2f", minutes, secs)
}
