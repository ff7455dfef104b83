package aggregate

import (
	"github.com/pkozemirov/fathom/internal/model"
)

// credibleThreshold is the minimum credibility for a source to count as
// strong when scoring confidence
const credibleThreshold = 3

// Independent reports whether two sources corroborate each other
// independently: different registrable domains, different organizations,
// and not a republication of the same original reporting. Publication date
// is irrelevant to independence.
func Independent(a, b *model.Source, republishThreshold float64) bool {
	da := model.RegistrableDomain(a.URL)
	db := model.RegistrableDomain(b.URL)
	if da == "" || db == "" || da == db {
		return false
	}

	// The registrable domain doubles as the organization identity; the
	// worker contract carries no author metadata.

	// Near-identical titles on different domains are the same original
	// reporting syndicated, not independent corroboration
	if a.Title != "" && b.Title != "" && Similarity(a.Title, b.Title) >= republishThreshold {
		return false
	}

	return true
}

// ScoreConfidence derives the confidence level of a claim from its final
// citation set. It is a pure function: the same set always yields the same
// level.
//
//	>=2 independent sources, each credibility >=3  -> high
//	exactly 1 source credibility >=3, or
//	>=2 sources all credibility <3                 -> medium
//	exactly 1 source, credibility <=2              -> low
func ScoreConfidence(citations []*model.Source, republishThreshold float64) model.ConfidenceLevel {
	if len(citations) == 0 {
		return model.ConfidenceLow
	}

	var strong []*model.Source
	for _, src := range citations {
		if src.Credibility >= credibleThreshold {
			strong = append(strong, src)
		}
	}

	if countIndependent(strong, republishThreshold) >= 2 {
		return model.ConfidenceHigh
	}
	if len(strong) >= 1 {
		return model.ConfidenceMedium
	}
	if len(citations) >= 2 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

// countIndependent counts pairwise-independent sources greedily in citation
// order: a source joins the count only if independent of every source
// already counted. Deterministic for a fixed citation order.
func countIndependent(sources []*model.Source, republishThreshold float64) int {
	var counted []*model.Source
	for _, src := range sources {
		ok := true
		for _, prev := range counted {
			if !Independent(src, prev, republishThreshold) {
				ok = false
				break
			}
		}
		if ok {
			counted = append(counted, src)
		}
	}
	return len(counted)
}
