package annotation

import (
	"fmt"
	"math"
	"time"
)

// ParticipantType distinguishes participants from experts.
type ParticipantType string

const (
	Participant ParticipantType = "P"
	Expert      ParticipantType = "E"
)

// Valid reports whether t is a known participant type.
func (t ParticipantType) Valid() bool {
	return t == Participant || t == Expert
}

// TaskSegment is a labelled, contiguous time range.
type TaskSegment struct {
	TaskName   string  `json:"task_name" yaml:"task_name"`
	StartTime  float64 `json:"start_time" yaml:"start_time"`
	EndTime    float64 `json:"end_time" yaml:"end_time"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Duration returns the segment length in seconds.
func (s TaskSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// ParticipantMarker records a participant card session.
type ParticipantMarker struct {
	Type       ParticipantType `json:"participant_type" yaml:"participant_type"`
	Number     int             `json:"participant_number" yaml:"participant_number"`
	Timestamp  float64         `json:"timestamp" yaml:"timestamp"`
	Duration   float64         `json:"duration" yaml:"duration"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
}

// Label renders the marker as type plus number, e.g. "P3".
func (m ParticipantMarker) Label() string {
	return fmt.Sprintf("%s%d", m.Type, m.Number)
}

// VideoAnnotation is the result of one processing run over a video.
type VideoAnnotation struct {
	VideoPath          string              `json:"video_path" yaml:"video_path"`
	Version            int                 `json:"version" yaml:"version"`
	RunID              string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	ModelVersion       string              `json:"model_version,omitempty" yaml:"model_version,omitempty"`
	DurationSec        float64             `json:"duration" yaml:"duration"`
	FPS                float64             `json:"fps" yaml:"fps"`
	FrameCount         int                 `json:"frame_count" yaml:"frame_count"`
	Processed          bool                `json:"processed" yaml:"processed"`
	CreatedAt          time.Time           `json:"created_at" yaml:"created_at"`
	TaskSegments       []TaskSegment       `json:"task_segments" yaml:"task_segments"`
	ParticipantMarkers []ParticipantMarker `json:"participant_markers" yaml:"participant_markers"`
}

// ParticipantFor returns the participant label assigned to segment.
func (a *VideoAnnotation) ParticipantFor(segment TaskSegment) (string, bool) {
	if a == nil {
		return "", false
	}
	marker, ok := AssignParticipant(segment, a.ParticipantMarkers)
	if !ok {
		return "", false
	}
	return marker.Label(), true
}

const contiguityTolerance = 1e-6

// CheckContiguous verifies that segments are non-empty, time ordered and meet
// exactly end to start.
func CheckContiguous(segments []TaskSegment) error {
	for i, seg := range segments {
		if seg.EndTime < seg.StartTime {
			return fmt.Errorf("segment %d (%s) ends before it starts", i, seg.TaskName)
		}
		if i == 0 {
			continue
		}
		if gap := seg.StartTime - segments[i-1].EndTime; math.Abs(gap) > contiguityTolerance {
			return fmt.Errorf("segment %d (%s) starts at %.3f but previous ends at %.3f", i, seg.TaskName, seg.StartTime, segments[i-1].EndTime)
		}
	}
	return nil
}
