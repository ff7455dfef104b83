// Package decompose splits a research query into non-overlapping,
// coverage-complete subtopics, one per research worker.
package decompose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkozemirov/fathom/internal/llm"
	"github.com/pkozemirov/fathom/internal/model"
)

// ErrInsufficientScope means the query is too narrow to split into the
// requested number of non-overlapping subtopics. Fatal to the run; the
// caller should retry with a lower depth.
var ErrInsufficientScope = errors.New("query cannot be split into non-overlapping subtopics at this depth (try a lower depth)")

const maxProposalAttempts = 2

// Decomposer produces subtopic decompositions via an LLM proposal that is
// then checked by a deterministic validator. Overlapping subtopics are
// never silently emitted.
type Decomposer struct {
	provider llm.Provider
	cfg      model.ResearchConfig
}

// New creates a decomposer
func New(provider llm.Provider, cfg model.ResearchConfig) *Decomposer {
	if cfg.KeywordOverlapBound == 0 {
		cfg.KeywordOverlapBound = 1
	}
	return &Decomposer{provider: provider, cfg: cfg}
}

// proposal is the JSON shape the provider is asked to emit
type proposal struct {
	Title     string   `json:"title"`
	Keywords  []string `json:"keywords"`
	Angle     string   `json:"angle"`
	Rationale string   `json:"rationale"`
}

// Decompose splits the query into exactly depth.SubtopicCount() subtopics
// satisfying the coverage invariants. It has no side effects beyond the
// returned list.
func (d *Decomposer) Decompose(ctx context.Context, query string, depth model.DepthLevel) ([]model.Subtopic, error) {
	count := depth.SubtopicCount()

	var lastErr error
	for attempt := 0; attempt < maxProposalAttempts; attempt++ {
		resp, err := d.provider.Complete(ctx, llm.CompletionRequest{
			System: decomposeSystem,
			Prompt: buildDecomposePrompt(query, count, attempt > 0, lastErr),
		})
		if err != nil {
			return nil, fmt.Errorf("decompose query: %w", err)
		}

		subs, err := parseProposals(resp.Text, count)
		if err != nil {
			lastErr = err
			continue
		}

		if err := ValidateSet(subs, count, d.cfg.KeywordOverlapBound); err != nil {
			lastErr = err
			continue
		}

		return subs, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrInsufficientScope, lastErr)
}

const decomposeSystem = `You decompose research queries into independent subtopics for parallel workers. You respond with a JSON array only, no prose.`

func buildDecomposePrompt(query string, count int, retry bool, lastErr error) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Split this research query into exactly %d subtopics:

%s

Rules:
- Subtopics must NOT overlap: no two may be expected to surface the same search results, and no two may share more than one keyword.
- Together the subtopics must cover the full query.
- At least one subtopic must address the current state of the field (angle "current_state"), one the limitations or criticisms (angle "limitations"), and one real-world practical applications (angle "practical_applications"). Other subtopics use angle "general".
- Each subtopic carries 3-5 search keywords, ordered most to least specific.

Respond with a JSON array of exactly %d objects:
[{"title": "...", "keywords": ["...", "..."], "angle": "current_state|limitations|practical_applications|general", "rationale": "..."}]
`, count, query, count)

	if retry && lastErr != nil {
		fmt.Fprintf(&b, "\nYour previous answer was rejected: %v\nFix that and answer again.\n", lastErr)
	}

	return b.String()
}

func parseProposals(text string, count int) ([]model.Subtopic, error) {
	var proposals []proposal
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &proposals); err != nil {
		return nil, fmt.Errorf("decode subtopic proposals: %w", err)
	}
	if len(proposals) != count {
		return nil, fmt.Errorf("expected %d subtopics, got %d", count, len(proposals))
	}

	subs := make([]model.Subtopic, 0, count)
	for _, p := range proposals {
		keywords := make([]string, 0, len(p.Keywords))
		seen := make(map[string]bool)
		for _, k := range p.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			keywords = append(keywords, k)
		}

		subs = append(subs, model.Subtopic{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(p.Title),
			Keywords:  keywords,
			Angle:     parseAngle(p.Angle),
			Rationale: strings.TrimSpace(p.Rationale),
		})
	}

	return subs, nil
}

func parseAngle(s string) model.Angle {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_") {
	case "current_state", "current":
		return model.AngleCurrentState
	case "limitations", "criticisms":
		return model.AngleLimitations
	case "practical_applications", "applications", "practical":
		return model.AngleApplications
	default:
		return model.AngleGeneral
	}
}
