package textutil

import (
	"regexp"

	"golang.org/x/text/cases"
)

// runPattern matches maximal ASCII letter or digit runs.
var runPattern = regexp.MustCompile(`[A-Za-z]+|[0-9]+`)

// Token is a maximal alphabetic or numeric run.
type Token struct {
	Text    string
	Numeric bool
}

// Tokens splits text into alphabetic and numeric runs, dropping everything
// else.
func Tokens(text string) []Token {
	matches := runPattern.FindAllString(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Text: m, Numeric: m[0] >= '0' && m[0] <= '9'})
	}
	return tokens
}

var folder = cases.Fold()

// Levenshtein returns the edit distance between a and b after case folding.
func Levenshtein(a, b string) int {
	ra := []rune(folder.String(a))
	rb := []rune(folder.String(b))
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
