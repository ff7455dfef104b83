// Package pipeline orchestrates a complete research run, from query
// decomposition through report composition.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/pkozemirov/fathom/internal/aggregate"
	"github.com/pkozemirov/fathom/internal/cache"
	"github.com/pkozemirov/fathom/internal/compose"
	"github.com/pkozemirov/fathom/internal/decompose"
	"github.com/pkozemirov/fathom/internal/dispatch"
	"github.com/pkozemirov/fathom/internal/llm"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/research"
	"github.com/pkozemirov/fathom/internal/search"
	"github.com/pkozemirov/fathom/internal/theme"
	"github.com/pkozemirov/fathom/internal/worker"
)

// Pipeline wires the research stages together. The decomposer and the
// research workers talk to the LLM; everything downstream of the
// dispatcher is deterministic.
type Pipeline struct {
	decomposer *decompose.Decomposer
	dispatcher *dispatch.Dispatcher
	aggregator *aggregate.Aggregator
	organizer  *theme.Organizer
	composer   *compose.Composer
	renderer   *compose.Renderer
	config     *model.Config
}

// NewPipeline creates a pipeline from the configuration. It fails when no
// LLM provider is configured, since both decomposition and research depend
// on one. A missing search backend degrades research to LLM-only with an
// explicit gap per subtopic rather than failing.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = home + "/.fathom/cache"
			}
		}
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache dir: %w", err)
			}
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	var searcher search.Client
	var fetcher search.Fetcher
	if cfg.Search.BaseURL != "" {
		searcher = search.NewHTTPClient(cfg.Search.BaseURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout, limiter, c, cfg.Cache.MemoryTTL)
		fetcher = search.NewHTTPFetcher(cfg.HTTP, limiter, c, cfg.Cache.DiskTTL)
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no search backend configured; research runs LLM-only")
	}

	w := research.NewLLMWorker(provider, searcher, fetcher, cfg.Search)

	return &Pipeline{
		decomposer: decompose.New(provider, cfg.Research),
		dispatcher: dispatch.New(w, cfg.Research.WorkerBudget),
		aggregator: aggregate.New(cfg.Research),
		organizer:  theme.NewOrganizer(cfg.Research.ThemeSharedTokens),
		composer:   compose.New(cfg.Research.MaxKeyFindings),
		renderer:   compose.NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}, nil
}

// Run executes one research pass. A single failed subtopic degrades the
// report; the run only errors when the query cannot be decomposed at all.
func (p *Pipeline) Run(ctx context.Context, query string, depth model.DepthLevel) (*model.Report, error) {
	subtopics, err := p.decomposer.Decompose(ctx, query, depth)
	if err != nil {
		return nil, fmt.Errorf("decompose query: %w", err)
	}

	docs := p.dispatcher.Dispatch(ctx, subtopics, depth)

	degraded := true
	for _, doc := range docs {
		if !doc.Failed {
			degraded = false
			break
		}
	}

	registry := p.aggregator.Aggregate(docs)
	themes := p.organizer.Organize(registry.Claims)
	report := p.composer.Compose(query, depth, registry, themes, degraded)

	return report, nil
}

// RenderReport writes the report to the requested outputs and prints the
// run summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
