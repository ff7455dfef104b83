package search

import (
	"strings"
	"testing"
)

func TestExtractText_TitleAndBody(t *testing.T) {
	page := `<html><head><title>Raft Overview</title><script>var x=1;</script></head>
<body><h1>Consensus</h1><p>Raft elects a leader.</p><style>.x{}</style></body></html>`

	title, text := ExtractText(page)

	if title != "Raft Overview" {
		t.Errorf("Expected title extracted, got %q", title)
	}
	if !strings.Contains(text, "Raft elects a leader.") {
		t.Errorf("Expected body text extracted, got %q", text)
	}
	if strings.Contains(text, "var x=1") {
		t.Error("Expected script content skipped")
	}
	if strings.Contains(text, ".x{}") {
		t.Error("Expected style content skipped")
	}
}

func TestExtractText_MalformedHTML(t *testing.T) {
	_, text := ExtractText("<p>unclosed paragraph <b>bold")
	if !strings.Contains(text, "unclosed paragraph") {
		t.Errorf("Expected text from malformed HTML, got %q", text)
	}
}
