package llm

import "testing"

func TestExtractJSON_FencedBlock(t *testing.T) {
	text := "Here are the subtopics:\n```json\n{\"a\": 1}\n```\nDone."
	got := ExtractJSON(text)
	if got != `{"a": 1}` {
		t.Errorf("Expected fenced JSON extracted, got %q", got)
	}
}

func TestExtractJSON_BareObject(t *testing.T) {
	text := `The result is {"claims": [{"claim": "x"}]} as requested.`
	got := ExtractJSON(text)
	if got != `{"claims": [{"claim": "x"}]}` {
		t.Errorf("Expected bare object extracted, got %q", got)
	}
}

func TestExtractJSON_Array(t *testing.T) {
	text := `[{"title": "a"}, {"title": "b"}]`
	got := ExtractJSON(text)
	if got != text {
		t.Errorf("Expected array passed through, got %q", got)
	}
}

func TestExtractJSON_BracesInStrings(t *testing.T) {
	text := `{"claim": "uses {} braces"} trailing`
	got := ExtractJSON(text)
	if got != `{"claim": "uses {} braces"}` {
		t.Errorf("Expected string braces ignored, got %q", got)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	text := "no structured output here"
	if got := ExtractJSON(text); got != text {
		t.Errorf("Expected plain text returned unchanged, got %q", got)
	}
}
