package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"expert", "", 6},
		{"kitten", "sitting", 3},
		{"Paricipant", "participant", 1},
		{"PARTICIPANT", "participant", 0},
		{"Expret", "expert", 2},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "Levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []Token{
		{Text: "Participant"},
		{Text: "07", Numeric: true},
		{Text: "ab"},
		{Text: "12", Numeric: true},
		{Text: "cd"},
	}, Tokens("Participant#07 ab12-cd"))
	assert.Empty(t, Tokens("  --  "), "punctuation only")
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"":                   "unknown",
		"/videos/Run 01.MP4": "videos_run_01_mp4",
		"___":                "unknown",
		"session-2_clip":     "session-2_clip",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeToken(in), "SanitizeToken(%q)", in)
	}
}

func TestPathToken(t *testing.T) {
	a := PathToken("/data/day1/clip.mp4")
	b := PathToken("/data/day2/clip.mp4")
	assert.NotEqual(t, a, b, "different directories")
	assert.Regexp(t, `^clip_mp4-[0-9a-f]{12}$`, a)
	assert.Equal(t, a, PathToken("/data/day1/./clip.mp4"), "cleaned paths share a token")
}
