// Package aggregate merges possibly-overlapping, possibly-duplicate
// evidence from independent research workers into one internally
// consistent registry of sources and claims.
package aggregate

import (
	"fmt"

	"github.com/pkozemirov/fathom/internal/model"
)

// Claim is a deduplicated claim cluster. Text holds the canonical wording
// (the longest seen); Citations is the union of every merged claim's
// sources in first-appearance order.
type Claim struct {
	Text       string
	Evidence   string
	Citations  []string // source URLs
	Confidence model.ConfidenceLevel
	Subtopics  []string // every subtopic that contributed to the cluster
	Order      int      // aggregation order, used for deterministic tie-breaks
	Related    []int    // orders of related-but-distinct claims
	Merged     int      // how many worker claims were folded in
}

// Registry is the deduplicated claim/source registry. The aggregator owns
// it exclusively during merge; downstream stages receive it read-only.
type Registry struct {
	Sources []*model.Source // insertion order
	Claims  []*Claim        // aggregation order
	Gaps    []string

	byURL map[string]*model.Source
}

// SourceByURL returns the registry entry for a URL, or nil
func (r *Registry) SourceByURL(url string) *model.Source {
	return r.byURL[url]
}

// CitationsOf resolves a claim's citation URLs against the registry
func (r *Registry) CitationsOf(c *Claim) []*model.Source {
	out := make([]*model.Source, 0, len(c.Citations))
	for _, url := range c.Citations {
		if src := r.byURL[url]; src != nil {
			out = append(out, src)
		}
	}
	return out
}

// Aggregator deduplicates sources and claims across worker outputs and
// assigns each surviving claim a confidence level
type Aggregator struct {
	cfg model.ResearchConfig
}

// New creates an aggregator with the given tuning
func New(cfg model.ResearchConfig) *Aggregator {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = 0.8
	}
	if cfg.RelatedThreshold == 0 {
		cfg.RelatedThreshold = 0.5
	}
	if cfg.RepublishThreshold == 0 {
		cfg.RepublishThreshold = 0.9
	}
	return &Aggregator{cfg: cfg}
}

// Aggregate merges the findings documents into a registry. Documents are
// processed in the order given; that order is the canonical ingestion
// order, and claim clustering is deterministic for a fixed order. A
// malformed document loses its claims and leaves a gap; it never aborts
// aggregation of the rest. If every document failed, the registry is
// simply empty with the gaps explaining why.
func (a *Aggregator) Aggregate(docs []model.Findings) *Registry {
	reg := &Registry{
		byURL: make(map[string]*model.Source),
	}

	for _, doc := range docs {
		// Worker-reported gaps survive into the report
		for _, gap := range doc.Gaps {
			if doc.Failed {
				reg.Gaps = append(reg.Gaps, gap)
			} else {
				reg.Gaps = append(reg.Gaps, fmt.Sprintf("subtopic %q: %s", doc.Subtopic, gap))
			}
		}
		if doc.Failed {
			continue
		}
		if err := doc.Validate(); err != nil {
			reg.Gaps = append(reg.Gaps, fmt.Sprintf("subtopic %q returned malformed data", doc.Subtopic))
			continue
		}

		for _, wc := range doc.Claims {
			citations := make([]string, 0, len(wc.Sources))
			seen := make(map[string]bool)
			for _, ws := range wc.Sources {
				if ws.URL == "" || seen[ws.URL] {
					continue
				}
				seen[ws.URL] = true
				a.ingestSource(reg, ws)
				citations = append(citations, ws.URL)
			}
			a.ingestClaim(reg, wc, doc.Subtopic, citations)
		}
	}

	a.crossReferenceSources(reg)

	// Confidence is recomputed from each claim's final citation set after
	// all merges, never carried over from intermediate states
	for _, c := range reg.Claims {
		c.Confidence = ScoreConfidence(reg.CitationsOf(c), a.cfg.RepublishThreshold)
	}

	return reg
}

// ingestSource merges a worker-reported source into the registry, keyed by
// exact URL. On collision the maximum credibility wins (a careful
// high-credibility judgment must not be diluted by a duplicate), and
// relevance notes are unioned.
func (a *Aggregator) ingestSource(reg *Registry, ws model.WorkerSource) {
	cred := model.ClampCredibility(ws.Credibility)

	if existing, ok := reg.byURL[ws.URL]; ok {
		if cred > existing.Credibility {
			existing.Credibility = cred
		}
		if existing.Title == "" {
			existing.Title = ws.Title
		}
		if ws.Relevance != "" && !containsString(existing.RelevanceNotes, ws.Relevance) {
			existing.RelevanceNotes = append(existing.RelevanceNotes, ws.Relevance)
		}
		return
	}

	src := &model.Source{
		URL:         ws.URL,
		Title:       ws.Title,
		Credibility: cred,
	}
	if ws.Relevance != "" {
		src.RelevanceNotes = []string{ws.Relevance}
	}
	reg.byURL[ws.URL] = src
	reg.Sources = append(reg.Sources, src)
}

// ingestClaim folds a worker claim into the registry. It is compared
// against each cluster's current representative text only; a merge is
// transitive within the pass but merged claims are not re-compared against
// later arrivals. That bounds the cost to one pass over the claim count at
// the price of possibly missing late near-duplicates.
func (a *Aggregator) ingestClaim(reg *Registry, wc model.WorkerClaim, subtopic string, citations []string) {
	bestIdx := -1
	bestScore := 0.0
	var related []int

	for i, cl := range reg.Claims {
		score := Similarity(wc.Claim, cl.Text)
		if score > bestScore || (score == bestScore && bestIdx == -1 && score > 0) {
			bestScore = score
			bestIdx = i
		}
		if score >= a.cfg.RelatedThreshold && score < a.cfg.SimilarityThreshold {
			related = append(related, cl.Order)
		}
	}

	if bestIdx >= 0 && bestScore >= a.cfg.SimilarityThreshold {
		cl := reg.Claims[bestIdx]
		// Longer wording is the more detailed one; it becomes canonical
		if len(wc.Claim) > len(cl.Text) {
			cl.Text = wc.Claim
		}
		if len(wc.Evidence) > len(cl.Evidence) {
			cl.Evidence = wc.Evidence
		}
		for _, url := range citations {
			if !containsString(cl.Citations, url) {
				cl.Citations = append(cl.Citations, url)
			}
		}
		if !containsString(cl.Subtopics, subtopic) {
			cl.Subtopics = append(cl.Subtopics, subtopic)
		}
		cl.Merged++
		return
	}

	// Below threshold: the claim stays distinct so nuance is preserved,
	// cross-referenced to its topical relatives
	cl := &Claim{
		Text:      wc.Claim,
		Evidence:  wc.Evidence,
		Citations: citations,
		Subtopics: []string{subtopic},
		Order:     len(reg.Claims),
		Related:   related,
		Merged:    1,
	}
	for _, rel := range related {
		reg.Claims[rel].Related = append(reg.Claims[rel].Related, cl.Order)
	}
	reg.Claims = append(reg.Claims, cl)
}

// crossReferenceSources flags same-domain sources with near-identical
// titles as related. They stay distinct entities: same-domain
// republication is common and must never be counted as independent
// corroboration, but collapsing them would lose citations.
func (a *Aggregator) crossReferenceSources(reg *Registry) {
	for i, s1 := range reg.Sources {
		for _, s2 := range reg.Sources[i+1:] {
			if s1.Domain() == "" || s1.Domain() != s2.Domain() {
				continue
			}
			if s1.Title == "" || s2.Title == "" {
				continue
			}
			if Similarity(s1.Title, s2.Title) >= a.cfg.RelatedThreshold {
				s1.RelatedURLs = append(s1.RelatedURLs, s2.URL)
				s2.RelatedURLs = append(s2.RelatedURLs, s1.URL)
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
