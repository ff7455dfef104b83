package research

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkozemirov/fathom/internal/llm"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/search"
)

// LLMWorker researches a subtopic by searching the web for its keywords,
// fetching the top pages, and asking a language model to synthesize a
// findings document from the gathered material.
type LLMWorker struct {
	provider  llm.Provider
	searcher  search.Client  // nil: synthesize from model knowledge only
	fetcher   search.Fetcher // nil: hits are passed without page text
	authority *AuthorityClassifier
	cfg       model.SearchConfig
}

// NewLLMWorker creates a research worker. Searcher and fetcher may be nil,
// which degrades the worker to model-knowledge synthesis with a gap noting
// that no live material was gathered.
func NewLLMWorker(provider llm.Provider, searcher search.Client, fetcher search.Fetcher, cfg model.SearchConfig) *LLMWorker {
	if cfg.ResultsPerKey == 0 {
		cfg.ResultsPerKey = 5
	}
	if cfg.PagesPerTopic == 0 {
		cfg.PagesPerTopic = 6
	}
	return &LLMWorker{
		provider:  provider,
		searcher:  searcher,
		fetcher:   fetcher,
		authority: NewAuthorityClassifier(cfg.Authority),
		cfg:       cfg,
	}
}

// material is what one fetched page contributes to the synthesis prompt
type material struct {
	url     string
	title   string
	excerpt string
}

const maxExcerptLen = 4000

// Research gathers material for the assignment and synthesizes findings
func (w *LLMWorker) Research(ctx context.Context, assignment model.Assignment) (*model.Findings, error) {
	materials, queries, gatherGaps := w.gather(ctx, assignment.Subtopic)

	resp, err := w.provider.Complete(ctx, llm.CompletionRequest{
		System: researchSystem,
		Prompt: buildResearchPrompt(assignment, materials),
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize findings: %w", err)
	}

	findings, err := model.ParseFindings([]byte(llm.ExtractJSON(resp.Text)))
	if err != nil {
		return nil, fmt.Errorf("worker output for %q: %w", assignment.Subtopic.Title, err)
	}

	// The document's subtopic is authoritative from the assignment, not
	// from the model's echo
	findings.Subtopic = assignment.Subtopic.Title
	findings.SearchQueriesUsed = queries
	findings.Gaps = append(findings.Gaps, gatherGaps...)

	return findings, nil
}

// gather runs the keyword searches and fetches the top pages. Gather
// failures degrade to gaps; the synthesis still runs on whatever material
// survived.
func (w *LLMWorker) gather(ctx context.Context, sub model.Subtopic) ([]material, []string, []string) {
	var materials []material
	var queries []string
	var gaps []string

	if w.searcher == nil {
		return nil, nil, []string{"no search backend configured; findings synthesized from model knowledge only"}
	}

	seen := make(map[string]bool)
	var hits []search.Hit
	for _, keyword := range sub.Keywords {
		query := sub.Title + " " + keyword
		queries = append(queries, query)

		found, err := w.searcher.Search(ctx, query, w.cfg.ResultsPerKey)
		if err != nil {
			gaps = append(gaps, fmt.Sprintf("search failed for %q: %v", query, err))
			continue
		}
		for _, h := range found {
			if h.URL == "" || seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			hits = append(hits, h)
		}
	}

	// The fetch budget goes to the most authoritative hits first; the
	// stable sort keeps search ranking as the tie-break
	sort.SliceStable(hits, func(i, j int) bool {
		return w.authority.Score(hits[i].URL) > w.authority.Score(hits[j].URL)
	})

	for _, h := range hits {
		if len(materials) >= w.cfg.PagesPerTopic {
			break
		}
		m := material{url: h.URL, title: h.Title, excerpt: h.Snippet}
		if w.fetcher != nil {
			page, err := w.fetcher.FetchText(ctx, h.URL)
			if err != nil {
				gaps = append(gaps, fmt.Sprintf("could not fetch %s: %v", h.URL, err))
			} else {
				if page.Title != "" {
					m.title = page.Title
				}
				m.excerpt = clipText(page.Text, maxExcerptLen)
			}
		}
		materials = append(materials, m)
	}

	return materials, queries, gaps
}

const researchSystem = `You are a research worker producing structured findings for one subtopic. You respond with a JSON object only, no prose.`

func buildResearchPrompt(assignment model.Assignment, materials []material) string {
	var b strings.Builder

	sub := assignment.Subtopic
	fmt.Fprintf(&b, "Research this subtopic: %s\n", sub.Title)
	fmt.Fprintf(&b, "Angle: %s\n", sub.Angle)
	fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(sub.Keywords, ", "))

	if len(assignment.CoveredTopics) > 0 {
		b.WriteString("Do NOT cover these subtopics; other workers own them:\n")
		for _, topic := range assignment.CoveredTopics {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
		b.WriteString("\n")
	}

	if len(materials) > 0 {
		b.WriteString("Source material (cite ONLY these URLs):\n")
		for i, m := range materials {
			fmt.Fprintf(&b, "--- [%d] %s (%s)\n%s\n", i+1, m.title, m.url, m.excerpt)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Rules:
- Every claim needs at least one source with a credibility rating 1-5 (5 = primary/official, 4 = major publisher, 3 = reputable secondary, 2 = blog/forum, 1 = unverifiable).
- Record what you could NOT establish as gaps.
- Be factual and specific; one sentence per claim.

Respond with JSON:
{"subtopic": "...",
 "claims": [{"claim": "...", "evidence": "...",
             "sources": [{"url": "...", "title": "...", "credibility": 3, "relevance": "..."}]}],
 "gaps": ["..."],
 "search_queries_used": []}
`)

	return b.String()
}

func clipText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
