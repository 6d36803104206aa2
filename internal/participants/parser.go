package participants

import (
	"strconv"

	"vidseg/internal/annotation"
	"vidseg/internal/textutil"
)

const (
	keywordParticipant = "participant"
	keywordExpert      = "expert"
	minKeywordLength   = 5
	maxKeywordDistance = 3
)

// Card is a parsed identity card.
type Card struct {
	Type   annotation.ParticipantType
	Number int
}

// ParseCard fuzzy-matches text against the card keywords. The first word of
// at least five letters within edit distance three of "participant" or
// "expert" that is followed by a positive number yields the card; the closer
// keyword decides the type, with participant winning ties.
func ParseCard(text string) (Card, bool) {
	tokens := textutil.Tokens(text)
	for i, tok := range tokens {
		if tok.Numeric || len(tok.Text) < minKeywordLength {
			continue
		}
		dp := textutil.Levenshtein(tok.Text, keywordParticipant)
		de := textutil.Levenshtein(tok.Text, keywordExpert)
		if dp > maxKeywordDistance && de > maxKeywordDistance {
			continue
		}
		number, ok := nextNumber(tokens[i+1:])
		if !ok {
			continue
		}
		card := Card{Type: annotation.Expert, Number: number}
		if dp <= de {
			card.Type = annotation.Participant
		}
		return card, true
	}
	return Card{}, false
}

func nextNumber(tokens []textutil.Token) (int, bool) {
	for _, tok := range tokens {
		if !tok.Numeric {
			continue
		}
		n, err := strconv.Atoi(tok.Text)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
