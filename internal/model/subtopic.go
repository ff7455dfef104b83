package model

import (
	"fmt"
	"time"
)

// DepthLevel controls how many subtopics a query is split into
type DepthLevel string

const (
	DepthQuick  DepthLevel = "quick"
	DepthMedium DepthLevel = "medium"
	DepthDeep   DepthLevel = "deep"
)

// ParseDepth parses a depth level string
func ParseDepth(s string) (DepthLevel, error) {
	switch DepthLevel(s) {
	case DepthQuick, DepthMedium, DepthDeep:
		return DepthLevel(s), nil
	default:
		return "", fmt.Errorf("unknown depth level: %q (supported: quick, medium, deep)", s)
	}
}

// SubtopicCount returns the number of subtopics generated for this depth
func (d DepthLevel) SubtopicCount() int {
	switch d {
	case DepthQuick:
		return 3
	case DepthDeep:
		return 10
	default:
		return 5
	}
}

// WorkerBudget returns the default per-worker time budget for this depth
func (d DepthLevel) WorkerBudget() time.Duration {
	switch d {
	case DepthQuick:
		return 3 * time.Minute
	case DepthDeep:
		return 8 * time.Minute
	default:
		return 5 * time.Minute
	}
}

// Angle classifies which facet of the query a subtopic addresses
type Angle string

const (
	AngleCurrentState Angle = "current_state"
	AngleLimitations  Angle = "limitations"
	AngleApplications Angle = "practical_applications"
	AngleGeneral      Angle = "general"
)

// RequiredAngles are the angles every decomposition must cover
func RequiredAngles() []Angle {
	return []Angle{AngleCurrentState, AngleLimitations, AngleApplications}
}

// Subtopic is one non-overlapping facet of a query, assigned to exactly
// one research worker. Subtopics are created once per query and never
// mutated afterwards.
type Subtopic struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Keywords  []string `json:"keywords"` // 3-5 ordered search keywords
	Angle     Angle    `json:"angle"`
	Rationale string   `json:"rationale,omitempty"`
}

// Assignment is what a worker receives: its own subtopic plus the titles
// of every other subtopic, so it knows what NOT to cover.
type Assignment struct {
	Subtopic      Subtopic `json:"subtopic"`
	CoveredTopics []string `json:"covered_topics"`
}
