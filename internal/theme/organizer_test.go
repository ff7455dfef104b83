package theme

import (
	"testing"

	"github.com/pkozemirov/fathom/internal/aggregate"
	"github.com/pkozemirov/fathom/internal/model"
)

func claim(order int, text string, conf model.ConfidenceLevel, urls ...string) *aggregate.Claim {
	return &aggregate.Claim{
		Text:       text,
		Citations:  urls,
		Confidence: conf,
		Order:      order,
	}
}

func TestOrganize_GroupsByTokenOverlap(t *testing.T) {
	claims := []*aggregate.Claim{
		claim(0, "Raft leader election uses randomized timeouts", model.ConfidenceMedium, "https://a.com/1"),
		claim(1, "Leader election timeouts prevent split votes", model.ConfidenceMedium, "https://b.com/1"),
		claim(2, "Postgres vacuum reclaims dead tuples", model.ConfidenceLow, "https://c.com/1"),
	}

	org := NewOrganizer(2)
	themes := org.Organize(claims)

	if len(themes) != 2 {
		t.Fatalf("Expected 2 themes, got %d", len(themes))
	}

	var election, vacuum *Theme
	for _, th := range themes {
		if len(th.Claims) == 2 {
			election = th
		} else {
			vacuum = th
		}
	}
	if election == nil || vacuum == nil {
		t.Fatalf("Expected one 2-claim theme and one 1-claim theme")
	}
	if vacuum.Claims[0].Text != claims[2].Text {
		t.Errorf("vacuum claim landed in the wrong theme")
	}
}

func TestOrganize_SingletonWhenNoOverlap(t *testing.T) {
	claims := []*aggregate.Claim{
		claim(0, "Kernel bypass networking reduces latency", model.ConfidenceLow, "https://a.com/1"),
		claim(1, "Solar panel efficiency improved markedly", model.ConfidenceLow, "https://b.com/1"),
	}

	themes := NewOrganizer(2).Organize(claims)
	if len(themes) != 2 {
		t.Fatalf("Expected each claim in its own theme, got %d themes", len(themes))
	}
	for _, th := range themes {
		if len(th.Claims) != 1 {
			t.Errorf("Expected singleton theme, got %d claims", len(th.Claims))
		}
	}
}

func TestOrganize_OrderedByConfidenceWeight(t *testing.T) {
	claims := []*aggregate.Claim{
		claim(0, "container image layers cache builds", model.ConfidenceLow, "https://a.com/1"),
		claim(1, "vector index recall tradeoffs quantization", model.ConfidenceHigh, "https://b.com/1", "https://c.com/1"),
	}

	themes := NewOrganizer(2).Organize(claims)
	if len(themes) != 2 {
		t.Fatalf("Expected 2 themes, got %d", len(themes))
	}
	// The high-confidence theme outranks the earlier low-confidence one
	if themes[0].Claims[0].Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high-confidence theme first, got %q", themes[0].Claims[0].Confidence)
	}
}

func TestOrganize_Deterministic(t *testing.T) {
	claims := []*aggregate.Claim{
		claim(0, "Raft leader election uses randomized timeouts", model.ConfidenceMedium, "https://a.com/1"),
		claim(1, "Leader election timeouts prevent split votes", model.ConfidenceMedium, "https://b.com/1"),
		claim(2, "Postgres vacuum reclaims dead tuples", model.ConfidenceLow, "https://c.com/1"),
	}

	org := NewOrganizer(2)
	first := org.Organize(claims)
	second := org.Organize(claims)

	if len(first) != len(second) {
		t.Fatalf("theme count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title {
			t.Errorf("theme %d title changed: %q vs %q", i, first[i].Title, second[i].Title)
		}
		if len(first[i].Claims) != len(second[i].Claims) {
			t.Errorf("theme %d size changed", i)
		}
	}
}

func TestOrganize_TitleFromFrequentTokens(t *testing.T) {
	claims := []*aggregate.Claim{
		claim(0, "Raft leader election uses randomized timeouts", model.ConfidenceMedium, "https://a.com/1"),
		claim(1, "Leader election liveness depends on timeouts", model.ConfidenceMedium, "https://b.com/1"),
	}

	themes := NewOrganizer(2).Organize(claims)
	if len(themes) != 1 {
		t.Fatalf("Expected 1 theme, got %d", len(themes))
	}
	// "election", "leader" and "timeouts" each appear twice; alphabetical
	// tie-break picks the first two
	if themes[0].Title != "Election Leader" {
		t.Errorf("Expected title from most frequent tokens, got %q", themes[0].Title)
	}
}

func TestOrganize_Empty(t *testing.T) {
	themes := NewOrganizer(2).Organize(nil)
	if len(themes) != 0 {
		t.Errorf("Expected no themes for no claims, got %d", len(themes))
	}
}
