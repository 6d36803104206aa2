package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgressSamplerDefaultsBucket(t *testing.T) {
	for _, size := range []float64{0, -3} {
		assert.Equal(t, 5.0, NewProgressSampler(size).bucketSize, "size %v", size)
	}
}

func TestProgressSamplerNilAlwaysLogs(t *testing.T) {
	var s *ProgressSampler
	assert.True(t, s.ShouldLog("Analysing tasks", 12))
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		stage   string
		percent float64
		want    bool
	}{
		{"Analysing tasks", 0, true},
		{"Analysing tasks", 4, false},
		{"Analysing tasks", 10, true},
		{"Analysing tasks", 19.9, false},
		{"Analysing tasks", 150, true},
		{"Analysing tasks", 100, false},
		{" Detecting participants ", 50, true},
		{"Detecting participants", 55, false},
		{"Detecting participants", -1, false},
		{"Complete", -1, true},
	}
	for i, step := range steps {
		assert.Equal(t, step.want, s.ShouldLog(step.stage, step.percent), "step %d (%s %.1f)", i, step.stage, step.percent)
	}
}
