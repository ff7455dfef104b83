package aggregate

import "strings"

// stopwords are excluded from similarity comparison; function words carry
// no topical signal and inflate overlap between unrelated claims
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "this": true, "to": true, "was": true, "were": true,
	"which": true, "with": true,
}

// Tokenize splits text into a set of lowercased alphanumeric tokens with
// stopwords removed
func Tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len(tok) < 2 || stopwords[tok] {
			return
		}
		tokens[tok] = true
	}

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// Similarity computes the Dice coefficient of the two texts' token sets,
// normalized to 0-1. Identical token sets score 1, disjoint sets score 0.
// The measure is deterministic and symmetric.
func Similarity(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)

	if len(ta) == 0 || len(tb) == 0 {
		if len(ta) == 0 && len(tb) == 0 && strings.TrimSpace(a) == strings.TrimSpace(b) {
			return 1
		}
		return 0
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ta)+len(tb))
}

// SharedTokens counts the tokens two texts have in common
func SharedTokens(a, b map[string]bool) int {
	shared := 0
	for tok := range a {
		if b[tok] {
			shared++
		}
	}
	return shared
}
