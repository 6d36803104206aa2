package segmentation

// Smooth replaces each label with the label carrying the most confidence mass
// within window frames centred on it. Window bounds are clamped to the
// sequence. Ties go to the label appearing first in vocabulary, followed by
// unseen labels in first-seen order. Confidence values are left untouched.
// A window of one or less returns a copy of the input.
func Smooth(preds []FramePrediction, window int, vocabulary []string) []FramePrediction {
	out := make([]FramePrediction, len(preds))
	copy(out, preds)
	if len(preds) == 0 || window <= 1 {
		return out
	}

	labels, index := buildVocabulary(preds, vocabulary)
	k := len(labels)
	n := len(preds)

	// prefix[(i)*k+j] holds the confidence mass of label j over frames [0, i).
	prefix := make([]float64, (n+1)*k)
	for i, p := range preds {
		row, next := prefix[i*k:(i+1)*k], prefix[(i+1)*k:(i+2)*k]
		copy(next, row)
		next[index[p.Label]] += p.Confidence
	}

	half := window / 2
	for i := range out {
		lo := max(i-half, 0)
		hi := min(i+half, n-1) + 1
		best, bestMass := 0, -1.0
		for j := 0; j < k; j++ {
			mass := prefix[hi*k+j] - prefix[lo*k+j]
			if mass > bestMass {
				best, bestMass = j, mass
			}
		}
		out[i].Label = labels[best]
	}
	return out
}

func buildVocabulary(preds []FramePrediction, vocabulary []string) ([]string, map[string]int) {
	labels := make([]string, 0, len(vocabulary))
	index := make(map[string]int, len(vocabulary))
	add := func(label string) {
		if _, ok := index[label]; ok {
			return
		}
		index[label] = len(labels)
		labels = append(labels, label)
	}
	for _, label := range vocabulary {
		add(label)
	}
	for _, p := range preds {
		add(p.Label)
	}
	return labels, index
}
