// Package search holds the text-search and page-fetch collaborators the
// research workers drive. The pipeline core never imports this package;
// it reaches the network only through the worker boundary.
package search

import "context"

// Hit is one text-search result
type Hit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"content,omitempty"`
}

// Client performs text searches
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

// Page is the extracted text of a fetched web page
type Page struct {
	URL   string
	Title string
	Text  string
}

// Fetcher retrieves and extracts page text
type Fetcher interface {
	FetchText(ctx context.Context, url string) (*Page, error)
}
