package research

import (
	"net/url"
	"strings"

	"github.com/pkozemirov/fathom/internal/model"
)

// AuthorityClassifier estimates how authoritative a host is, on the same
// 1-5 scale workers use for credibility. The estimate only orders search
// hits for fetching; reported credibility always comes from the synthesis.
type AuthorityClassifier struct {
	config       model.AuthorityConfig
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

// NewAuthorityClassifier creates a classifier from configuration
func NewAuthorityClassifier(config model.AuthorityConfig) *AuthorityClassifier {
	c := &AuthorityClassifier{
		config:       config,
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
	}
	for _, domain := range config.PrimaryDomains {
		c.primaryMap[domain] = true
	}
	for _, domain := range config.SecondaryDomains {
		c.secondaryMap[domain] = true
	}
	return c
}

// Score estimates a URL's authority: 5 for primary hosts, 4 for secondary,
// 2 otherwise. Unparseable URLs score 1.
func (a *AuthorityClassifier) Score(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return 1
	}

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}

	// Explicit overrides win over the tier lists
	if a.config.DomainMap != nil {
		if score, ok := a.config.DomainMap[host]; ok {
			return model.ClampCredibility(score)
		}
	}

	if a.matches(host, a.primaryMap) {
		return 5
	}
	if a.matches(host, a.secondaryMap) {
		return 4
	}

	return 2
}

// matches checks the host against a domain set by suffix, so en.wikipedia.org
// matches wikipedia.org and data.gov matches gov
func (a *AuthorityClassifier) matches(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
