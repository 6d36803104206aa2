package annotation

// AssignParticipant picks the marker closest before or at segment start. If
// none precedes it, the earliest marker after the start is used. Markers must
// be ordered by timestamp.
func AssignParticipant(segment TaskSegment, markers []ParticipantMarker) (ParticipantMarker, bool) {
	before, after := -1, -1
	for i, m := range markers {
		if m.Timestamp <= segment.StartTime {
			if before < 0 || m.Timestamp > markers[before].Timestamp {
				before = i
			}
			continue
		}
		if after < 0 || m.Timestamp < markers[after].Timestamp {
			after = i
		}
	}
	switch {
	case before >= 0:
		return markers[before], true
	case after >= 0:
		return markers[after], true
	default:
		return ParticipantMarker{}, false
	}
}
