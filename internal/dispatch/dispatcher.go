// Package dispatch fans research assignments out to independent workers
// and joins their results, tolerating partial failure.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/research"
	"github.com/pkozemirov/fathom/internal/worker"
)

// Dispatcher runs one research worker per subtopic in parallel. A worker
// that times out, errors, or returns malformed output is converted into an
// empty gap-tagged findings document; a single bad subtopic never aborts
// or delays the rest, and siblings are never cancelled.
type Dispatcher struct {
	worker research.Worker
	budget time.Duration
}

// New creates a dispatcher. A zero budget falls back to the depth default
// at dispatch time.
func New(w research.Worker, budget time.Duration) *Dispatcher {
	return &Dispatcher{worker: w, budget: budget}
}

// BuildAssignments pairs each subtopic with the titles of all the others,
// so each worker knows what not to cover
func BuildAssignments(subtopics []model.Subtopic) []model.Assignment {
	assignments := make([]model.Assignment, len(subtopics))
	for i, sub := range subtopics {
		covered := make([]string, 0, len(subtopics)-1)
		for j, other := range subtopics {
			if j != i {
				covered = append(covered, other.Title)
			}
		}
		assignments[i] = model.Assignment{Subtopic: sub, CoveredTopics: covered}
	}
	return assignments
}

// researchJob is one worker invocation through the pool. The run context
// is carried on the job so caller cancellation reaches the worker even
// though the pool manages its own lifecycle.
type researchJob struct {
	ctx        context.Context
	index      int
	assignment model.Assignment
	worker     research.Worker
	budget     time.Duration
}

// researchResult carries the subtopic index so the join can restore the
// canonical subtopic order regardless of completion order
type researchResult struct {
	index    int
	findings model.Findings
	err      error
}

func (r *researchResult) GetError() error { return r.err }

// Execute runs one worker under its own budget. Exceeding the budget
// cancels only this worker's remaining work.
func (j *researchJob) Execute(_ context.Context) worker.Result {
	jobCtx, cancel := context.WithTimeout(j.ctx, j.budget)
	defer cancel()

	title := j.assignment.Subtopic.Title

	findings, err := j.worker.Research(jobCtx, j.assignment)
	if err != nil {
		gap := describeFailure(title, err, j.budget)
		return &researchResult{
			index:    j.index,
			findings: model.EmptyFindings(title, gap),
			err:      err,
		}
	}

	if vErr := findings.Validate(); vErr != nil {
		return &researchResult{
			index:    j.index,
			findings: model.EmptyFindings(title, fmt.Sprintf("subtopic %q returned malformed data", title)),
			err:      vErr,
		}
	}

	return &researchResult{index: j.index, findings: *findings}
}

// Dispatch fans the subtopics out with concurrency equal to the subtopic
// count and waits for every worker to finish or exceed its budget. The
// returned documents are in subtopic order, one per subtopic, with
// failures explicitly marked. Failures are never retried; the gap is
// surfaced instead so total run time stays bounded.
func (d *Dispatcher) Dispatch(ctx context.Context, subtopics []model.Subtopic, depth model.DepthLevel) []model.Findings {
	if len(subtopics) == 0 {
		return nil
	}

	budget := d.budget
	if budget <= 0 {
		budget = depth.WorkerBudget()
	}

	assignments := BuildAssignments(subtopics)

	pool := worker.NewPool(len(subtopics))
	pool.Start()

	for i, assignment := range assignments {
		pool.Submit(&researchJob{
			ctx:        ctx,
			index:      i,
			assignment: assignment,
			worker:     d.worker,
			budget:     budget,
		})
	}

	results := pool.Wait()

	// Workers finish in arbitrary order; the index restores the canonical
	// subtopic order so aggregation is deterministic
	docs := make([]model.Findings, len(subtopics))
	have := make([]bool, len(subtopics))
	for _, res := range results {
		r := res.(*researchResult)
		docs[r.index] = r.findings
		have[r.index] = true
	}
	for i := range docs {
		if !have[i] {
			title := subtopics[i].Title
			docs[i] = model.EmptyFindings(title, fmt.Sprintf("subtopic %q: research cancelled before completion", title))
		}
	}

	return docs
}

func describeFailure(title string, err error, budget time.Duration) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("subtopic %q: worker timed out after %s", title, budget)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("subtopic %q: research cancelled before completion", title)
	default:
		return fmt.Sprintf("subtopic %q: worker failed: %v", title, err)
	}
}
