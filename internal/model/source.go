package model

import (
	"net/url"
	"strings"
)

// Source is a cited web source. Identity is the URL: two sources with the
// same URL are the same entity and are merged, never duplicated.
type Source struct {
	URL            string   `json:"url"`
	Title          string   `json:"title,omitempty"`
	Credibility    int      `json:"credibility"` // 1-5, assigned at ingestion
	RelevanceNotes []string `json:"relevance_notes,omitempty"`
	RelatedURLs    []string `json:"related_urls,omitempty"` // same-domain near-republications
}

// Domain returns the host of the source URL, without port or www prefix
func (s Source) Domain() string {
	return DomainOf(s.URL)
}

// DomainOf extracts the host from a raw URL, without port or www prefix
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// secondLevelTLDs lists common multi-part public suffixes where the
// registrable domain spans three labels instead of two.
var secondLevelTLDs = map[string]bool{
	"co.uk": true, "ac.uk": true, "gov.uk": true, "org.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.jp": true, "or.jp": true, "ne.jp": true,
	"co.nz": true, "co.in": true, "com.br": true, "com.cn": true,
}

// RegistrableDomain approximates the eTLD+1 of a URL. Two sources with the
// same registrable domain are never treated as independent of each other.
func RegistrableDomain(rawURL string) string {
	host := DomainOf(rawURL)
	if host == "" {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	tail2 := strings.Join(labels[len(labels)-2:], ".")
	if secondLevelTLDs[tail2] && len(labels) >= 3 {
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return tail2
}

// ClampCredibility restricts a reported credibility score to the 1-5 scale
func ClampCredibility(c int) int {
	if c < 1 {
		return 1
	}
	if c > 5 {
		return 5
	}
	return c
}
