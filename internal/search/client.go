package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkozemirov/fathom/internal/cache"
	"github.com/pkozemirov/fathom/internal/worker"
)

// HTTPClient queries a SearxNG-compatible JSON search endpoint
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewHTTPClient creates a search client against a SearxNG-compatible
// endpoint. The cache may be nil.
func NewHTTPClient(baseURL, userAgent string, timeout time.Duration, limiter *worker.Limiter, c cache.Cache, cacheTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		limiter:   limiter,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

type searxResponse struct {
	Results []Hit `json:"results"`
}

// Search runs one query and returns at most limit hits
func (c *HTTPClient) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if c.cache != nil {
		if data, found := c.cache.Get(cache.Key("search", query)); found {
			var hits []Hit
			if err := json.Unmarshal(data, &hits); err == nil {
				return clip(hits, limit), nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s/search?q=%s&format=json", c.baseURL, url.QueryEscape(query))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if c.cache != nil {
		if data, err := json.Marshal(parsed.Results); err == nil {
			_ = c.cache.Set(cache.Key("search", query), data, c.cacheTTL)
		}
	}

	return clip(parsed.Results, limit), nil
}

func clip(hits []Hit, limit int) []Hit {
	if limit > 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}
