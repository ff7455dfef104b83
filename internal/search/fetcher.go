package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkozemirov/fathom/internal/cache"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/util"
	"github.com/pkozemirov/fathom/internal/worker"
)

// HTTPFetcher retrieves web pages and extracts their text. It is polite:
// robots.txt is honored (including crawl delay) and requests are
// rate-limited per domain.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewHTTPFetcher creates a page fetcher from the HTTP configuration. The
// cache and limiter may be nil.
func NewHTTPFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, c cache.Cache, cacheTTL time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   limiter,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// FetchText retrieves a page and returns its extracted text
func (f *HTTPFetcher) FetchText(ctx context.Context, rawURL string) (*Page, error) {
	if f.cache != nil {
		if data, found := f.cache.Get(cache.Key("page", rawURL)); found {
			var page Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err == nil && !allowed {
		return nil, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := ExtractText(string(body))
	page := &Page{
		URL:   resp.Request.URL.String(),
		Title: title,
		Text:  text,
	}

	if f.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = f.cache.Set(cache.Key("page", rawURL), data, f.cacheTTL)
		}
	}

	return page, nil
}
