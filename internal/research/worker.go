// Package research defines the research-worker boundary: the contract a
// worker must satisfy and the LLM-backed implementation that drives the
// search and fetch collaborators.
package research

import (
	"context"

	"github.com/pkozemirov/fathom/internal/model"
)

// Worker researches one subtopic and returns a structured findings
// document. The pipeline core consumes only this contract; a worker owns
// its own network collaborators and shares no state with its siblings.
type Worker interface {
	Research(ctx context.Context, assignment model.Assignment) (*model.Findings, error)
}

// WorkerFunc adapts a function to the Worker interface
type WorkerFunc func(ctx context.Context, assignment model.Assignment) (*model.Findings, error)

// Research implements Worker
func (f WorkerFunc) Research(ctx context.Context, assignment model.Assignment) (*model.Findings, error) {
	return f(ctx, assignment)
}
