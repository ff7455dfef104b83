package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkozemirov/fathom/internal/decompose"
	"github.com/pkozemirov/fathom/internal/model"
	"github.com/pkozemirov/fathom/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	depthFlag   string
	outJSON     string
	outMD       string
	budget      time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	searchURL   string
	llmProvider string
	llmModel    string
)

// loadFileConfig overlays the values viper read from the config file and
// environment onto cfg. The config structs carry yaml tags, so the decoder
// is pointed at those instead of mapstructure's default.
func loadFileConfig(v *viper.Viper, cfg *model.Config) error {
	return v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
}

// resolveDepth picks the run depth: an explicitly passed flag wins, then
// the config file, then the flag default
func resolveDepth(flagChanged bool, flagValue string, fileValue model.DepthLevel) (model.DepthLevel, error) {
	if !flagChanged && fileValue != "" {
		return model.ParseDepth(string(fileValue))
	}
	return model.ParseDepth(flagValue)
}

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Research a query in depth and generate a cited report",
	Long: `Research decomposes a query into distinct subtopics, investigates each
one in parallel against web sources, and synthesizes a report that:
- Deduplicates overlapping claims across subtopics
- Scores every claim's confidence from source corroboration
- Groups findings into themes rather than echoing the subtopic split
- Numbers citations once, tiered by source credibility
- Reports research gaps instead of papering over failures

Example:
  fathom research "impact of remote work on software teams"
  fathom research "RISC-V adoption in datacenters" --depth deep --md report.md
  fathom research "battery recycling economics" --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	// Research flags
	researchCmd.Flags().StringVar(&depthFlag, "depth", "medium", "research depth (quick, medium, deep)")
	researchCmd.Flags().DurationVar(&budget, "budget", 0, "per-worker time budget (default: depends on depth)")

	// Output flags
	researchCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	researchCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	researchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	researchCmd.Flags().StringVar(&userAgent, "ua", "Fathom/0.1 (+https://github.com/pkozemirov/fathom)", "HTTP User-Agent")
	researchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per page")
	researchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh searches and fetches)")
	researchCmd.Flags().StringVar(&searchURL, "search-url", "", "SearxNG-compatible search endpoint (default: $FATHOM_SEARCH_URL)")

	// LLM flags
	researchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	researchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default: provider default)")
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	// Defaults, overlaid by the config file, overlaid by changed flags
	cfg := model.DefaultConfig()
	if err := loadFileConfig(viper.GetViper(), cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()

	depth, err := resolveDepth(flags.Changed("depth"), depthFlag, cfg.Research.Depth)
	if err != nil {
		return err
	}
	cfg.Research.Depth = depth

	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	verbose = cfg.Output.Verbose
	if flags.Changed("budget") {
		cfg.Research.WorkerBudget = budget
	}

	if searchURL != "" {
		cfg.Search.BaseURL = searchURL
	} else if env := os.Getenv("FATHOM_SEARCH_URL"); env != "" {
		cfg.Search.BaseURL = env
	}

	if flags.Changed("llm-provider") || cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	// Get API key from environment
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	// The overall run is bounded by the sum of per-worker budgets plus
	// decomposition and composition overhead
	workerBudget := cfg.Research.WorkerBudget
	if workerBudget <= 0 {
		workerBudget = depth.WorkerBudget()
	}
	runTimeout := workerBudget + 5*time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Researching: %s\n", query)
		fmt.Fprintf(os.Stderr, "Depth: %s (%d subtopics, %v per worker)\n", depth, depth.SubtopicCount(), workerBudget)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	report, err := p.Run(ctx, query, depth)
	if err != nil {
		if errors.Is(err, decompose.ErrInsufficientScope) {
			return fmt.Errorf("%s is too narrow for depth %s: %w", query, depth, err)
		}
		return fmt.Errorf("research failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d claims across %d themes\n", report.Statistics.TotalClaims, len(report.Themes))
		fmt.Fprintf(os.Stderr, "✓ %d unique sources\n", report.Statistics.UniqueSources)
		if report.Degraded {
			fmt.Fprintf(os.Stderr, "⚠ Degraded report: all research workers failed\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
