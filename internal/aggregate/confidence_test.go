package aggregate

import (
	"testing"

	"github.com/pkozemirov/fathom/internal/model"
)

const testRepublishThreshold = 0.9

func src(url, title string, cred int) *model.Source {
	return &model.Source{URL: url, Title: title, Credibility: cred}
}

func TestScoreConfidence_TwoIndependentCredibleSources(t *testing.T) {
	// Different domains and organizations, different titles
	citations := []*model.Source{
		src("https://aws.com/builders-library/raft", "Leader election in practice", 4),
		src("https://sre.google/workbook/consensus", "Managing consensus systems", 4),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", got)
	}
}

func TestScoreConfidence_SinglePersonalBlog(t *testing.T) {
	citations := []*model.Source{
		src("https://randomblog.example.net/post", "My thoughts on raft", 2),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", got)
	}
}

func TestScoreConfidence_SingleCredibleSource(t *testing.T) {
	citations := []*model.Source{
		src("https://dl.acm.org/doi/raft-paper", "In search of an understandable consensus algorithm", 5),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %s", got)
	}
}

func TestScoreConfidence_TwoWeakSources(t *testing.T) {
	citations := []*model.Source{
		src("https://blog-one.example.com/a", "Raft notes", 2),
		src("https://blog-two.example.org/b", "Consensus ramblings", 1),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence for two weak sources, got %s", got)
	}
}

func TestScoreConfidence_SameDomainNotIndependent(t *testing.T) {
	// Two credible sources on the same registrable domain corroborate
	// nothing; this is one organization speaking twice
	citations := []*model.Source{
		src("https://docs.example.com/raft", "Raft overview", 4),
		src("https://blog.example.com/raft-deep-dive", "Raft deep dive", 4),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence for same-domain sources, got %s", got)
	}
}

func TestScoreConfidence_RepublishedStoryNotIndependent(t *testing.T) {
	// Near-identical titles on different domains: syndication of the same
	// original reporting
	citations := []*model.Source{
		src("https://wire-service.com/raft-powers-cloud", "How Raft powers the modern cloud", 4),
		src("https://regional-news.net/tech/raft", "How Raft powers the modern cloud", 3),
	}

	got := ScoreConfidence(citations, testRepublishThreshold)
	if got != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence for republished story, got %s", got)
	}
}

func TestScoreConfidence_EmptyCitations(t *testing.T) {
	if got := ScoreConfidence(nil, testRepublishThreshold); got != model.ConfidenceLow {
		t.Errorf("Expected low confidence with no citations, got %s", got)
	}
}

func TestScoreConfidence_Pure(t *testing.T) {
	citations := []*model.Source{
		src("https://aws.com/a", "Alpha report", 4),
		src("https://sre.google/b", "Beta analysis", 4),
	}

	first := ScoreConfidence(citations, testRepublishThreshold)
	second := ScoreConfidence(citations, testRepublishThreshold)
	if first != second {
		t.Errorf("Expected recomputation to be stable, got %s then %s", first, second)
	}
}

func TestIndependent_DatesIrrelevant(t *testing.T) {
	// Independence is a function of domain, organization, and originality
	// only; there is no date field to consult
	a := src("https://aws.com/a", "Alpha report", 4)
	b := src("https://sre.google/b", "Beta analysis", 4)
	if !Independent(a, b, testRepublishThreshold) {
		t.Error("Expected different-domain different-title sources to be independent")
	}
}

func TestRegistrableDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.bbc.co.uk/news/tech":     "bbc.co.uk",
		"https://sre.google/workbook":         "sre.google",
		"https://docs.example.com:8080/x":     "example.com",
		"https://blog.research.example.com/y": "example.com",
	}
	for url, want := range cases {
		if got := model.RegistrableDomain(url); got != want {
			t.Errorf("RegistrableDomain(%s): expected %s, got %s", url, want, got)
		}
	}
}
