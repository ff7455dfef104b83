// Package theme groups deduplicated claims into coherent report sections.
package theme

import (
	"sort"
	"strings"

	"github.com/pkozemirov/fathom/internal/aggregate"
	"github.com/pkozemirov/fathom/internal/model"
)

// Theme is a group of claims that share enough vocabulary to read as one
// section of the report.
type Theme struct {
	Title  string
	Claims []*aggregate.Claim

	tokens map[string]bool // union of member claim tokens
	counts map[string]int  // token frequency across members, drives the title
}

// Organizer assigns claims to themes by token overlap. The grouping is
// greedy and deterministic: claims are considered in aggregation order and
// join the first existing theme they overlap with.
type Organizer struct {
	minShared int
}

// NewOrganizer creates an organizer. minShared is the minimum number of
// significant tokens a claim must share with a theme to join it.
func NewOrganizer(minShared int) *Organizer {
	if minShared < 1 {
		minShared = 1
	}
	return &Organizer{minShared: minShared}
}

// Organize groups the claims into titled themes and orders the themes by
// evidential weight: themes with more high-confidence claims come first,
// then more medium, then more distinct sources, with earliest claim as
// the final tie-break.
func (o *Organizer) Organize(claims []*aggregate.Claim) []*Theme {
	var themes []*Theme

	for _, c := range claims {
		toks := aggregate.Tokenize(c.Text)

		var home *Theme
		for _, th := range themes {
			if aggregate.SharedTokens(toks, th.tokens) >= o.minShared {
				home = th
				break
			}
		}
		if home == nil {
			home = &Theme{
				tokens: make(map[string]bool),
				counts: make(map[string]int),
			}
			themes = append(themes, home)
		}

		home.Claims = append(home.Claims, c)
		for tok := range toks {
			home.tokens[tok] = true
			home.counts[tok]++
		}
	}

	for _, th := range themes {
		th.Title = titleFor(th)
	}

	sort.SliceStable(themes, func(i, j int) bool {
		a, b := themes[i], themes[j]
		if ha, hb := a.countLevel(model.ConfidenceHigh), b.countLevel(model.ConfidenceHigh); ha != hb {
			return ha > hb
		}
		if ma, mb := a.countLevel(model.ConfidenceMedium), b.countLevel(model.ConfidenceMedium); ma != mb {
			return ma > mb
		}
		if sa, sb := a.distinctSources(), b.distinctSources(); sa != sb {
			return sa > sb
		}
		return a.earliestOrder() < b.earliestOrder()
	})

	return themes
}

func (t *Theme) countLevel(level model.ConfidenceLevel) int {
	n := 0
	for _, c := range t.Claims {
		if c.Confidence == level {
			n++
		}
	}
	return n
}

func (t *Theme) distinctSources() int {
	urls := make(map[string]bool)
	for _, c := range t.Claims {
		for _, u := range c.Citations {
			urls[u] = true
		}
	}
	return len(urls)
}

func (t *Theme) earliestOrder() int {
	earliest := t.Claims[0].Order
	for _, c := range t.Claims[1:] {
		if c.Order < earliest {
			earliest = c.Order
		}
	}
	return earliest
}

// titleFor derives a short label from the theme's most frequent tokens.
// Ties break alphabetically so the label is stable across runs.
func titleFor(t *Theme) string {
	type tokenCount struct {
		token string
		count int
	}
	ranked := make([]tokenCount, 0, len(t.counts))
	for tok, n := range t.counts {
		ranked = append(ranked, tokenCount{tok, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].token < ranked[j].token
	})

	n := 2
	if len(ranked) < n {
		n = len(ranked)
	}
	if n == 0 {
		return "General Findings"
	}

	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = titleCase(ranked[i].token)
	}
	return strings.Join(words, " ")
}

func titleCase(tok string) string {
	if tok == "" {
		return tok
	}
	return strings.ToUpper(tok[:1]) + tok[1:]
}
