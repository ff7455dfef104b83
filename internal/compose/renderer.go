package compose

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkozemirov/fathom/internal/model"
)

// Renderer writes a composed report to its output formats. Rendering is a
// pure projection of the report: it never reorders sections or reassigns
// citation numbers.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document to the given path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.Markdown(report)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the full report document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", report.Query)
	fmt.Fprintf(&b, "*Depth: %s · Generated: %s*\n\n", report.Depth, report.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(report.ExecutiveSummary)
	b.WriteString("\n\n")

	if len(report.KeyFindings) > 0 {
		b.WriteString("## Key Findings\n\n")
		for i, f := range report.KeyFindings {
			fmt.Fprintf(&b, "%d. %s %s%s\n", i+1, f.Text, citationRefs(f.Citations), confidenceTag(f.Confidence))
		}
		b.WriteString("\n")
	}

	if len(report.Themes) > 0 {
		b.WriteString("## Detailed Analysis\n\n")
		for _, th := range report.Themes {
			fmt.Fprintf(&b, "### %s\n\n", th.Title)
			for _, c := range th.Claims {
				fmt.Fprintf(&b, "- %s %s%s\n", c.Text, citationRefs(c.Citations), confidenceTag(c.Confidence))
				if c.Evidence != "" {
					fmt.Fprintf(&b, "  > %s\n", c.Evidence)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Sources\n\n")
	renderTier(&b, "High credibility", report.Sources.High)
	renderTier(&b, "Medium credibility", report.Sources.Mid)
	renderTier(&b, "Low credibility", report.Sources.Low)

	b.WriteString("## Confidence Statistics\n\n")
	s := report.Statistics
	fmt.Fprintf(&b, "| Level | Claims | Share |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| High | %d | %.0f%% |\n", s.HighCount, s.HighPercent)
	fmt.Fprintf(&b, "| Medium | %d | %.0f%% |\n", s.MediumCount, s.MediumPercent)
	fmt.Fprintf(&b, "| Low | %d | %.0f%% |\n", s.LowCount, s.LowPercent)
	fmt.Fprintf(&b, "\n%d claims total · %d unique sources · average credibility %.1f/5\n\n",
		s.TotalClaims, s.UniqueSources, s.AverageCredibility)

	if len(report.Gaps) > 0 {
		b.WriteString("## Research Gaps\n\n")
		for _, g := range report.Gaps {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n*Generated by fathom. Confidence levels reflect source corroboration, not truth.*\n")
	}

	return b.String()
}

// RenderSummary prints a short run summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Statistics
	fmt.Printf("\nResearch: %s (%s)\n", report.Query, report.Depth)
	if report.Degraded {
		fmt.Println("Status:   DEGRADED — all research workers failed")
	}
	fmt.Printf("Claims:   %d (high %d / medium %d / low %d)\n",
		s.TotalClaims, s.HighCount, s.MediumCount, s.LowCount)
	fmt.Printf("Sources:  %d unique, average credibility %.1f/5\n", s.UniqueSources, s.AverageCredibility)
	fmt.Printf("Themes:   %d\n", len(report.Themes))
	if len(report.Gaps) > 0 {
		fmt.Printf("Gaps:     %d\n", len(report.Gaps))
	}
}

func renderTier(b *strings.Builder, label string, sources []model.CitedSource) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", label)
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		fmt.Fprintf(b, "%d. [%s](%s) — credibility %d/5\n", s.Number, title, s.URL, s.Credibility)
		for _, note := range s.RelevanceNotes {
			fmt.Fprintf(b, "   - %s\n", note)
		}
	}
	b.WriteString("\n")
}

func citationRefs(nums []int) string {
	if len(nums) == 0 {
		return ""
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("[%d]", n)
	}
	return strings.Join(parts, "")
}

func confidenceTag(c model.ConfidenceLevel) string {
	return fmt.Sprintf(" *(%s)*", c.Marker())
}
