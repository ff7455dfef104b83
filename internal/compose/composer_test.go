package compose

import (
	"strings"
	"testing"

	"github.com/pkozemirov/fathom/internal/aggregate"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/theme"
)

func testRegistry() *aggregate.Registry {
	reg := &aggregate.Registry{}
	reg.Sources = []*model.Source{
		{URL: "https://blog.example.com/post", Title: "A blog post", Credibility: 2},
		{URL: "https://docs.aws.com/whitepaper", Title: "AWS whitepaper", Credibility: 5},
		{URL: "https://news.example.com/article", Title: "News article", Credibility: 3},
		{URL: "https://sre.google/handbook", Title: "SRE handbook", Credibility: 4},
	}
	reg.Claims = []*aggregate.Claim{
		{
			Text:       "Well-corroborated claim about reliability",
			Citations:  []string{"https://docs.aws.com/whitepaper", "https://sre.google/handbook"},
			Confidence: model.ConfidenceHigh,
			Order:      0,
		},
		{
			Text:       "Weakly supported claim from a blog",
			Citations:  []string{"https://blog.example.com/post"},
			Confidence: model.ConfidenceLow,
			Order:      1,
		},
		{
			Text:       "Moderately supported claim from the news",
			Citations:  []string{"https://news.example.com/article"},
			Confidence: model.ConfidenceMedium,
			Order:      2,
		},
	}
	reg.Gaps = []string{`subtopic "costs": no pricing data found`}
	return reg
}

func composeTest(t *testing.T, reg *aggregate.Registry, degraded bool) *model.Report {
	t.Helper()
	themes := theme.NewOrganizer(2).Organize(reg.Claims)
	return New(10).Compose("test query", model.DepthMedium, reg, themes, degraded)
}

func TestCompose_TieredCitationNumbers(t *testing.T) {
	report := composeTest(t, testRegistry(), false)

	// High-credibility sources get the lowest numbers regardless of how
	// late they entered the registry
	if len(report.Sources.High) != 2 {
		t.Fatalf("Expected 2 high-tier sources, got %d", len(report.Sources.High))
	}
	if report.Sources.High[0].URL != "https://docs.aws.com/whitepaper" || report.Sources.High[0].Number != 1 {
		t.Errorf("Expected whitepaper as citation 1, got %q = %d",
			report.Sources.High[0].URL, report.Sources.High[0].Number)
	}
	if report.Sources.High[1].Number != 2 {
		t.Errorf("Expected second high-tier source numbered 2, got %d", report.Sources.High[1].Number)
	}
	if len(report.Sources.Mid) != 1 || report.Sources.Mid[0].Number != 3 {
		t.Errorf("Expected news article as citation 3")
	}
	if len(report.Sources.Low) != 1 || report.Sources.Low[0].Number != 4 {
		t.Errorf("Expected blog as citation 4")
	}
}

func TestCompose_KeyFindingsRankedByConfidence(t *testing.T) {
	report := composeTest(t, testRegistry(), false)

	if len(report.KeyFindings) != 3 {
		t.Fatalf("Expected 3 key findings, got %d", len(report.KeyFindings))
	}
	order := []model.ConfidenceLevel{model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow}
	for i, want := range order {
		if report.KeyFindings[i].Confidence != want {
			t.Errorf("finding %d: expected %s, got %s", i, want, report.KeyFindings[i].Confidence)
		}
	}
	if got := report.KeyFindings[0].Citations; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected top finding cited as [1 2], got %v", got)
	}
}

func TestCompose_KeyFindingsCapped(t *testing.T) {
	reg := testRegistry()
	themes := theme.NewOrganizer(2).Organize(reg.Claims)
	report := New(2).Compose("test query", model.DepthMedium, reg, themes, false)

	if len(report.KeyFindings) != 2 {
		t.Errorf("Expected findings capped at 2, got %d", len(report.KeyFindings))
	}
}

func TestCompose_Statistics(t *testing.T) {
	report := composeTest(t, testRegistry(), false)
	s := report.Statistics

	if s.TotalClaims != 3 || s.HighCount != 1 || s.MediumCount != 1 || s.LowCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.HighPercent < 33.2 || s.HighPercent > 33.4 {
		t.Errorf("Expected high percent ~33.3, got %.2f", s.HighPercent)
	}
	if s.UniqueSources != 4 {
		t.Errorf("Expected 4 unique sources, got %d", s.UniqueSources)
	}
	// (2+5+3+4)/4
	if s.AverageCredibility != 3.5 {
		t.Errorf("Expected average credibility 3.5, got %.2f", s.AverageCredibility)
	}
}

func TestCompose_GapsCarried(t *testing.T) {
	report := composeTest(t, testRegistry(), false)
	if len(report.Gaps) != 1 || !strings.Contains(report.Gaps[0], "costs") {
		t.Errorf("Expected registry gap carried into report, got %v", report.Gaps)
	}
}

func TestCompose_DegradedReport(t *testing.T) {
	reg := &aggregate.Registry{
		Gaps: []string{
			`subtopic "one": worker timed out after 5m0s`,
			`subtopic "two": worker failed: connection reset`,
		},
	}
	report := composeTest(t, reg, true)

	if !report.Degraded {
		t.Error("Expected degraded flag set")
	}
	if !strings.Contains(report.ExecutiveSummary, "could not be completed") {
		t.Errorf("Expected degraded summary, got %q", report.ExecutiveSummary)
	}
	if len(report.KeyFindings) != 0 || len(report.Themes) != 0 {
		t.Error("Expected empty findings and themes in degraded report")
	}
	if len(report.Gaps) != 2 {
		t.Errorf("Expected both failure gaps carried, got %d", len(report.Gaps))
	}
}

func TestRenderMarkdown_StableAcrossRenders(t *testing.T) {
	report := composeTest(t, testRegistry(), false)
	r := NewRenderer(false)

	first := r.Markdown(report)
	second := r.Markdown(report)
	if first != second {
		t.Error("Expected identical markdown across renders of the same report")
	}
	if !strings.Contains(first, "[1]") {
		t.Error("Expected citation references in markdown")
	}
	if !strings.Contains(first, "## Research Gaps") {
		t.Error("Expected gaps section in markdown")
	}
}
