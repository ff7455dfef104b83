package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	HTTP         HTTPConfig      `yaml:"http"`
	Cache        CacheConfig     `yaml:"cache"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting"`
	LLM          LLMConfig       `yaml:"llm"`
	Search       SearchConfig    `yaml:"search"`
	Research     ResearchConfig  `yaml:"research"`
	Output       OutputConfig    `yaml:"output"`
}

// HTTPConfig controls the page-fetch HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls the layered search/fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RateLimitConfig controls per-domain fetch rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// LLMConfig configures the language model provider used by the decomposer
// and the research workers
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // from environment, never persisted
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// SearchConfig configures the text-search collaborator
type SearchConfig struct {
	BaseURL       string          `yaml:"base_url"` // SearxNG-compatible JSON endpoint
	ResultsPerKey int             `yaml:"results_per_keyword"`
	PagesPerTopic int             `yaml:"pages_per_subtopic"`
	Authority     AuthorityConfig `yaml:"authority"`
}

// AuthorityConfig ranks search hits by domain authority so the limited
// fetch budget goes to the most authoritative pages first
type AuthorityConfig struct {
	// PrimaryDomains are official or primary-material hosts, matched by
	// suffix (gov matches data.gov and gov.uk)
	PrimaryDomains []string `yaml:"primary_domains"`

	// SecondaryDomains are reputable publishers and institutions
	SecondaryDomains []string `yaml:"secondary_domains"`

	// DomainMap overrides the tier lists with an explicit score per host
	DomainMap map[string]int `yaml:"domain_map,omitempty"`
}

// ResearchConfig holds the pipeline tuning knobs
type ResearchConfig struct {
	Depth DepthLevel `yaml:"depth"`

	// WorkerBudget overrides the per-depth worker time budget when nonzero
	WorkerBudget time.Duration `yaml:"worker_budget,omitempty"`

	// SimilarityThreshold merges claim pairs scoring at or above it (0-1)
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// RelatedThreshold cross-references, without merging, claim pairs
	// scoring at or above it but below the merge threshold
	RelatedThreshold float64 `yaml:"related_threshold"`

	// RepublishThreshold flags same-story republication across domains
	RepublishThreshold float64 `yaml:"republish_threshold"`

	// KeywordOverlapBound is the maximum number of keywords any two
	// subtopics of one decomposition may share
	KeywordOverlapBound int `yaml:"keyword_overlap_bound"`

	// ThemeSharedTokens is the minimum significant-token overlap for a
	// claim to join an existing theme
	ThemeSharedTokens int `yaml:"theme_shared_tokens"`

	// MaxKeyFindings caps the ranked key findings list
	MaxKeyFindings int `yaml:"max_key_findings"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Fathom/0.1 (+https://github.com/pkozemirov/fathom)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.fathom/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Search: SearchConfig{
			BaseURL:       "",
			ResultsPerKey: 5,
			PagesPerTopic: 6,
			Authority: AuthorityConfig{
				PrimaryDomains: []string{
					"gov", "edu", "mil",
					"arxiv.org", "doi.org", "ietf.org", "iso.org", "w3.org",
				},
				SecondaryDomains: []string{
					"acm.org", "ieee.org", "nature.com", "sciencedirect.com",
					"wikipedia.org", "reuters.com", "apnews.com", "bbc.co.uk",
				},
			},
		},
		Research: ResearchConfig{
			Depth:               DepthMedium,
			SimilarityThreshold: 0.8,
			RelatedThreshold:    0.5,
			RepublishThreshold:  0.9,
			KeywordOverlapBound: 1,
			ThemeSharedTokens:   2,
			MaxKeyFindings:      10,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
