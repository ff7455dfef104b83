package decompose

import (
	"fmt"

	"github.com/pkozemirov/fathom/internal/model"
)

// ValidateSet checks the decomposition invariants: exact count, 3-5
// keywords per subtopic, non-empty titles, pairwise keyword overlap within
// the bound, and coverage of the required angles.
func ValidateSet(subs []model.Subtopic, count, overlapBound int) error {
	if len(subs) != count {
		return fmt.Errorf("expected %d subtopics, got %d", count, len(subs))
	}

	titles := make(map[string]bool)
	for i, s := range subs {
		if s.Title == "" {
			return fmt.Errorf("subtopic %d has no title", i+1)
		}
		if titles[s.Title] {
			return fmt.Errorf("duplicate subtopic title %q", s.Title)
		}
		titles[s.Title] = true
		if len(s.Keywords) < 3 || len(s.Keywords) > 5 {
			return fmt.Errorf("subtopic %q has %d keywords, want 3-5", s.Title, len(s.Keywords))
		}
	}

	for i := range subs {
		for j := i + 1; j < len(subs); j++ {
			if n := keywordOverlap(subs[i], subs[j]); n > overlapBound {
				return fmt.Errorf("subtopics %q and %q share %d keywords (bound %d)",
					subs[i].Title, subs[j].Title, n, overlapBound)
			}
		}
	}

	have := make(map[model.Angle]bool)
	for _, s := range subs {
		have[s.Angle] = true
	}
	for _, required := range model.RequiredAngles() {
		if !have[required] {
			return fmt.Errorf("no subtopic addresses the %q angle", required)
		}
	}

	return nil
}

func keywordOverlap(a, b model.Subtopic) int {
	set := make(map[string]bool, len(a.Keywords))
	for _, k := range a.Keywords {
		set[k] = true
	}
	n := 0
	for _, k := range b.Keywords {
		if set[k] {
			n++
		}
	}
	return n
}
