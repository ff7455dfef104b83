// Package compose assembles the final report from the aggregated registry
// and the organized themes.
package compose

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkozemirov/fathom/internal/aggregate"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/theme"
)

// Composer turns a claim registry and its themes into a model.Report.
// Citation numbers are assigned exactly once, in tiered source order, so a
// report renders identically no matter how many times it is serialized.
type Composer struct {
	maxKeyFindings int
}

// New creates a composer. maxKeyFindings caps the ranked key findings list.
func New(maxKeyFindings int) *Composer {
	if maxKeyFindings < 1 {
		maxKeyFindings = 10
	}
	return &Composer{maxKeyFindings: maxKeyFindings}
}

// Compose builds the report. degraded marks a run where every worker
// failed; the report then carries only the gaps section and an explicit
// summary instead of silently rendering an empty analysis.
func (c *Composer) Compose(query string, depth model.DepthLevel, reg *aggregate.Registry, themes []*theme.Theme, degraded bool) *model.Report {
	tiers, numbers := tierSources(reg.Sources)

	report := &model.Report{
		Query:       query,
		Depth:       depth,
		GeneratedAt: time.Now().UTC(),
		Degraded:    degraded,
		Sources:     tiers,
		Gaps:        append([]string(nil), reg.Gaps...),
	}

	report.Themes = c.themeSections(themes, numbers)
	report.KeyFindings = c.keyFindings(reg.Claims, numbers)
	report.Statistics = statistics(reg)
	report.ExecutiveSummary = c.executiveSummary(query, report, reg)

	return report
}

// tierSources partitions sources by credibility and assigns citation
// numbers in tiered first-appearance order: high-credibility sources get
// the lowest numbers, and within a tier sources keep the order in which
// they entered the registry.
func tierSources(sources []*model.Source) (model.SourceTiers, map[string]int) {
	var tiers model.SourceTiers
	numbers := make(map[string]int, len(sources))

	next := 1
	assign := func(bucket *[]model.CitedSource, s *model.Source) {
		numbers[s.URL] = next
		*bucket = append(*bucket, model.CitedSource{
			Number:         next,
			URL:            s.URL,
			Title:          s.Title,
			Credibility:    s.Credibility,
			RelevanceNotes: s.RelevanceNotes,
			RelatedURLs:    s.RelatedURLs,
		})
		next++
	}

	for _, s := range sources {
		if s.Credibility >= 4 {
			assign(&tiers.High, s)
		}
	}
	for _, s := range sources {
		if s.Credibility == 3 {
			assign(&tiers.Mid, s)
		}
	}
	for _, s := range sources {
		if s.Credibility <= 2 {
			assign(&tiers.Low, s)
		}
	}

	return tiers, numbers
}

func citationNumbers(urls []string, numbers map[string]int) []int {
	nums := make([]int, 0, len(urls))
	for _, u := range urls {
		if n, ok := numbers[u]; ok {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

func (c *Composer) themeSections(themes []*theme.Theme, numbers map[string]int) []model.ThemeSection {
	sections := make([]model.ThemeSection, 0, len(themes))
	for _, th := range themes {
		sec := model.ThemeSection{Title: th.Title}
		for _, cl := range th.Claims {
			sec.Claims = append(sec.Claims, model.ReportClaim{
				Text:       cl.Text,
				Evidence:   cl.Evidence,
				Confidence: cl.Confidence,
				Citations:  citationNumbers(cl.Citations, numbers),
			})
		}
		sections = append(sections, sec)
	}
	return sections
}

// keyFindings ranks all claims by confidence, then citation count, then
// aggregation order, and keeps the top entries.
func (c *Composer) keyFindings(claims []*aggregate.Claim, numbers map[string]int) []model.Finding {
	ranked := append([]*aggregate.Claim(nil), claims...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ra, rb := a.Confidence.Rank(), b.Confidence.Rank(); ra != rb {
			return ra > rb
		}
		if la, lb := len(a.Citations), len(b.Citations); la != lb {
			return la > lb
		}
		return a.Order < b.Order
	})

	if len(ranked) > c.maxKeyFindings {
		ranked = ranked[:c.maxKeyFindings]
	}

	findings := make([]model.Finding, 0, len(ranked))
	for _, cl := range ranked {
		findings = append(findings, model.Finding{
			Text:       cl.Text,
			Confidence: cl.Confidence,
			Citations:  citationNumbers(cl.Citations, numbers),
		})
	}
	return findings
}

func statistics(reg *aggregate.Registry) model.ConfidenceStats {
	stats := model.ConfidenceStats{
		TotalClaims:   len(reg.Claims),
		UniqueSources: len(reg.Sources),
	}

	for _, cl := range reg.Claims {
		switch cl.Confidence {
		case model.ConfidenceHigh:
			stats.HighCount++
		case model.ConfidenceMedium:
			stats.MediumCount++
		case model.ConfidenceLow:
			stats.LowCount++
		}
	}
	if stats.TotalClaims > 0 {
		total := float64(stats.TotalClaims)
		stats.HighPercent = 100 * float64(stats.HighCount) / total
		stats.MediumPercent = 100 * float64(stats.MediumCount) / total
		stats.LowPercent = 100 * float64(stats.LowCount) / total
	}
	if len(reg.Sources) > 0 {
		sum := 0
		for _, s := range reg.Sources {
			sum += s.Credibility
		}
		stats.AverageCredibility = float64(sum) / float64(len(reg.Sources))
	}

	return stats
}

func (c *Composer) executiveSummary(query string, report *model.Report, reg *aggregate.Registry) string {
	if report.Degraded {
		return fmt.Sprintf("Research into %q could not be completed: every research worker failed. "+
			"No findings are available; see the research gaps section for per-subtopic failure details.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research into %q surfaced %d distinct claims across %d themes, drawing on %d unique sources.",
		query, report.Statistics.TotalClaims, len(report.Themes), report.Statistics.UniqueSources)

	if report.Statistics.HighCount > 0 {
		fmt.Fprintf(&b, " %d claims are corroborated by multiple independent credible sources.",
			report.Statistics.HighCount)
	}
	if report.Statistics.LowCount > 0 {
		fmt.Fprintf(&b, " %d claims rest on a single weak source and should be treated as provisional.",
			report.Statistics.LowCount)
	}
	if len(reg.Gaps) > 0 {
		fmt.Fprintf(&b, " %d research gaps were identified where coverage was incomplete.", len(reg.Gaps))
	}

	return b.String()
}
