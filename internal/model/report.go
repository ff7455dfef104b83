package model

import "time"

// Report is the terminal artifact of one research run. It is immutable once
// composed: citation numbers and section ordering never change when the same
// report is re-rendered.
type Report struct {
	Query       string     `json:"query"`
	Depth       DepthLevel `json:"depth"`
	GeneratedAt time.Time  `json:"generated_at"`

	// Degraded is set when every worker failed and the report carries no
	// findings. The gaps section explains each failure.
	Degraded bool `json:"degraded,omitempty"`

	ExecutiveSummary string          `json:"executive_summary"`
	KeyFindings      []Finding       `json:"key_findings"`
	Themes           []ThemeSection  `json:"detailed_analysis"`
	Sources          SourceTiers     `json:"sources"`
	Statistics       ConfidenceStats `json:"confidence_statistics"`
	Gaps             []string        `json:"research_gaps"`
}

// Finding is one ranked entry in the key findings list
type Finding struct {
	Text       string          `json:"text"`
	Confidence ConfidenceLevel `json:"confidence"`
	Citations  []int           `json:"citations"` // stable citation numbers
}

// ReportClaim is a claim rendered inside a theme section
type ReportClaim struct {
	Text       string          `json:"text"`
	Evidence   string          `json:"evidence,omitempty"`
	Confidence ConfidenceLevel `json:"confidence"`
	Citations  []int           `json:"citations"`
}

// ThemeSection is one theme of the detailed analysis, holding semantically
// related claims drawn from potentially multiple subtopics
type ThemeSection struct {
	Title  string        `json:"title"`
	Claims []ReportClaim `json:"claims"`
}

// CitedSource is a source with its assigned citation number
type CitedSource struct {
	Number         int      `json:"number"`
	URL            string   `json:"url"`
	Title          string   `json:"title,omitempty"`
	Credibility    int      `json:"credibility"`
	RelevanceNotes []string `json:"relevance_notes,omitempty"`
	RelatedURLs    []string `json:"related_urls,omitempty"`
}

// SourceTiers partitions the source list by credibility. Citation numbers
// are assigned once, in the order sources first appear here.
type SourceTiers struct {
	High []CitedSource `json:"high"`   // credibility 5-4
	Mid  []CitedSource `json:"medium"` // credibility 3
	Low  []CitedSource `json:"low"`    // credibility 2-1
}

// ConfidenceStats are the aggregate statistics of a composed report
type ConfidenceStats struct {
	TotalClaims        int     `json:"total_claims"`
	HighCount          int     `json:"high_count"`
	MediumCount        int     `json:"medium_count"`
	LowCount           int     `json:"low_count"`
	HighPercent        float64 `json:"high_percent"`
	MediumPercent      float64 `json:"medium_percent"`
	LowPercent         float64 `json:"low_percent"`
	AverageCredibility float64 `json:"average_credibility"`
	UniqueSources      int     `json:"unique_sources"`
}
