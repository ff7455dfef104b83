package model

// ConfidenceLevel is the derived trust rating of a claim, recomputed from
// its final citation set after all merges. It is never stored independently
// of that set.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Rank orders confidence levels for sorting: high > medium > low
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Marker returns the report annotation for a confidence level
func (c ConfidenceLevel) Marker() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
