package participants

import (
	"math"

	"vidseg/internal/annotation"
)

// SessionTracker turns a per-frame stream of card detections into markers.
// A session opens on the first detection and closes once timeout consecutive
// frames carry no detection.
type SessionTracker struct {
	fps     float64
	timeout int

	open    bool
	start   int
	votes   []Card
	misses  int
	markers []annotation.ParticipantMarker
}

// NewSessionTracker constructs a tracker for a video at fps.
func NewSessionTracker(fps float64, timeout int) *SessionTracker {
	return &SessionTracker{fps: fps, timeout: max(timeout, 1)}
}

// Observe records the detection for frame. A nil card means nothing was
// detected.
func (s *SessionTracker) Observe(frame int, card *Card) {
	if card != nil {
		if !s.open {
			s.open = true
			s.start = frame
			s.votes = s.votes[:0]
		}
		s.votes = append(s.votes, *card)
		s.misses = 0
		return
	}
	if !s.open {
		return
	}
	s.misses++
	if s.misses >= s.timeout {
		s.close(frame)
	}
}

// Finish flushes any open session by replaying timeout empty observations at
// totalFrames and returns all markers in time order.
func (s *SessionTracker) Finish(totalFrames int) []annotation.ParticipantMarker {
	for range s.timeout {
		s.Observe(totalFrames, nil)
	}
	return s.markers
}

// Open reports whether a session is in progress.
func (s *SessionTracker) Open() bool {
	return s.open
}

func (s *SessionTracker) close(frame int) {
	winner := majority(s.votes)
	startSec := float64(s.start) / s.fps
	endSec := float64(frame) / s.fps
	s.markers = append(s.markers, annotation.ParticipantMarker{
		Type:       winner.Type,
		Number:     winner.Number,
		Timestamp:  startSec,
		Duration:   math.Round((endSec-startSec)*100) / 100,
		Confidence: 1.0,
	})
	s.open = false
	s.misses = 0
}

// majority returns the most frequent vote; the earliest seen wins ties.
func majority(votes []Card) Card {
	counts := make(map[Card]int, len(votes))
	var best Card
	bestCount := 0
	for _, v := range votes {
		counts[v]++
	}
	for _, v := range votes {
		if c := counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
