package model

import (
	"encoding/json"
	"fmt"
)

// WorkerSource is a source as reported by a research worker, before
// deduplication
type WorkerSource struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Credibility int    `json:"credibility"`
	Relevance   string `json:"relevance,omitempty"`
}

// WorkerClaim is a claim as reported by a research worker, before
// deduplication
type WorkerClaim struct {
	Claim    string         `json:"claim"`
	Evidence string         `json:"evidence,omitempty"`
	Sources  []WorkerSource `json:"sources"`
}

// Findings is the structured document one research worker returns for its
// subtopic. The aggregator consumes this contract; workers' copies are
// discarded after ingestion.
type Findings struct {
	Subtopic          string        `json:"subtopic"`
	Claims            []WorkerClaim `json:"claims"`
	Gaps              []string      `json:"gaps,omitempty"`
	SearchQueriesUsed []string      `json:"search_queries_used,omitempty"`

	// Failed marks a document synthesized by the dispatcher in place of a
	// worker that timed out or errored. Its Gaps explain the failure.
	Failed bool `json:"failed,omitempty"`
}

// EmptyFindings builds the placeholder document for a failed worker
func EmptyFindings(subtopic string, gap string) Findings {
	return Findings{
		Subtopic: subtopic,
		Claims:   []WorkerClaim{},
		Gaps:     []string{gap},
		Failed:   true,
	}
}

// Validate checks the structural contract: a findings document must carry
// a subtopic and a claims field (an empty claims list is valid)
func (f *Findings) Validate() error {
	if f.Subtopic == "" {
		return fmt.Errorf("findings document missing subtopic")
	}
	if f.Claims == nil {
		return fmt.Errorf("findings document missing claims")
	}
	return nil
}

// ParseFindings decodes and validates a worker findings document. Reported
// credibility scores are clamped to the 1-5 scale; claims without any text
// are dropped.
func ParseFindings(data []byte) (*Findings, error) {
	var f Findings
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	kept := f.Claims[:0]
	for _, c := range f.Claims {
		if c.Claim == "" {
			continue
		}
		for i := range c.Sources {
			c.Sources[i].Credibility = ClampCredibility(c.Sources[i].Credibility)
		}
		kept = append(kept, c)
	}
	f.Claims = kept

	return &f, nil
}
