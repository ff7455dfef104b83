package decompose

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pkozemirov/fathom/internal/llm"
	"github.com/pkozemirov/fathom/internal/model"
)

// fakeProvider replays canned completions
type fakeProvider struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }
func (f *fakeProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	return &llm.CompletionResponse{Text: f.responses[idx]}, nil
}

func validProposalJSON() string {
	return `[
	 {"title": "Current adoption of consensus protocols", "keywords": ["adoption", "etcd", "kubernetes"], "angle": "current_state", "rationale": "where the field is"},
	 {"title": "Known weaknesses of consensus designs", "keywords": ["weaknesses", "partition", "latency"], "angle": "limitations", "rationale": "what breaks"},
	 {"title": "Consensus in production infrastructure", "keywords": ["production", "deployment", "operations"], "angle": "practical_applications", "rationale": "how it is used"}
	]`
}

func TestDecompose_Valid(t *testing.T) {
	d := New(&fakeProvider{responses: []string{validProposalJSON()}}, model.ResearchConfig{KeywordOverlapBound: 1})

	subs, err := d.Decompose(context.Background(), "consensus protocols", model.DepthQuick)
	if err != nil {
		t.Fatalf("Expected decomposition to succeed: %v", err)
	}
	if len(subs) != model.DepthQuick.SubtopicCount() {
		t.Fatalf("Expected %d subtopics, got %d", model.DepthQuick.SubtopicCount(), len(subs))
	}
	for _, s := range subs {
		if s.ID == "" {
			t.Error("Expected every subtopic to carry an id")
		}
	}
}

func TestDecompose_RetriesThenInsufficientScope(t *testing.T) {
	// Every proposal overlaps beyond the bound; the decomposer must fail
	// loudly instead of emitting overlapping subtopics
	overlapping := `[
	 {"title": "A", "keywords": ["raft", "consensus", "leader"], "angle": "current_state", "rationale": ""},
	 {"title": "B", "keywords": ["raft", "consensus", "follower"], "angle": "limitations", "rationale": ""},
	 {"title": "C", "keywords": ["raft", "consensus", "log"], "angle": "practical_applications", "rationale": ""}
	]`
	f := &fakeProvider{responses: []string{overlapping}}
	d := New(f, model.ResearchConfig{KeywordOverlapBound: 1})

	_, err := d.Decompose(context.Background(), "raft", model.DepthQuick)
	if !errors.Is(err, ErrInsufficientScope) {
		t.Fatalf("Expected ErrInsufficientScope, got %v", err)
	}
	if f.calls != 2 {
		t.Errorf("Expected one retry before giving up, got %d calls", f.calls)
	}
}

func TestDecompose_SecondAttemptSucceeds(t *testing.T) {
	bad := `[{"title": "only one", "keywords": ["a", "b", "c"], "angle": "general", "rationale": ""}]`
	f := &fakeProvider{responses: []string{bad, validProposalJSON()}}
	d := New(f, model.ResearchConfig{KeywordOverlapBound: 1})

	subs, err := d.Decompose(context.Background(), "consensus protocols", model.DepthQuick)
	if err != nil {
		t.Fatalf("Expected second attempt to succeed: %v", err)
	}
	if len(subs) != 3 {
		t.Errorf("Expected 3 subtopics, got %d", len(subs))
	}
}

func TestDecompose_ProviderError(t *testing.T) {
	d := New(&fakeProvider{err: fmt.Errorf("connection refused")}, model.ResearchConfig{})

	_, err := d.Decompose(context.Background(), "anything", model.DepthQuick)
	if err == nil {
		t.Fatal("Expected provider errors surfaced")
	}
	if errors.Is(err, ErrInsufficientScope) {
		t.Error("Provider failure is not an insufficient-scope condition")
	}
}

func TestValidateSet_CountPerDepth(t *testing.T) {
	for _, depth := range []model.DepthLevel{model.DepthQuick, model.DepthMedium, model.DepthDeep} {
		count := depth.SubtopicCount()
		subs := make([]model.Subtopic, count)
		for i := range subs {
			subs[i] = model.Subtopic{
				Title:    fmt.Sprintf("topic %d", i),
				Keywords: []string{fmt.Sprintf("k%da", i), fmt.Sprintf("k%db", i), fmt.Sprintf("k%dc", i)},
				Angle:    model.AngleGeneral,
			}
		}
		subs[0].Angle = model.AngleCurrentState
		subs[1].Angle = model.AngleLimitations
		subs[2].Angle = model.AngleApplications

		if err := ValidateSet(subs, count, 1); err != nil {
			t.Errorf("depth %s: expected valid set, got %v", depth, err)
		}
		if err := ValidateSet(subs[:count-1], count, 1); err == nil {
			t.Errorf("depth %s: expected count mismatch rejected", depth)
		}
	}
}

func TestValidateSet_MissingRequiredAngle(t *testing.T) {
	subs := []model.Subtopic{
		{Title: "a", Keywords: []string{"x1", "x2", "x3"}, Angle: model.AngleCurrentState},
		{Title: "b", Keywords: []string{"y1", "y2", "y3"}, Angle: model.AngleLimitations},
		{Title: "c", Keywords: []string{"z1", "z2", "z3"}, Angle: model.AngleGeneral},
	}
	if err := ValidateSet(subs, 3, 1); err == nil {
		t.Error("Expected missing practical_applications angle rejected")
	}
}

func TestValidateSet_KeywordBound(t *testing.T) {
	subs := []model.Subtopic{
		{Title: "a", Keywords: []string{"shared1", "shared2", "x3"}, Angle: model.AngleCurrentState},
		{Title: "b", Keywords: []string{"shared1", "shared2", "y3"}, Angle: model.AngleLimitations},
		{Title: "c", Keywords: []string{"z1", "z2", "z3"}, Angle: model.AngleApplications},
	}
	if err := ValidateSet(subs, 3, 1); err == nil {
		t.Error("Expected two shared keywords rejected at bound 1")
	}
	if err := ValidateSet(subs, 3, 2); err != nil {
		t.Errorf("Expected two shared keywords accepted at bound 2, got %v", err)
	}
}
