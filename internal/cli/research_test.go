package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/pkozemirov/fathom/internal/model"
	"github.com/spf13/viper"
)

func viperFromYAML(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return v
}

func TestLoadFileConfig_OverlaysDefaults(t *testing.T) {
	v := viperFromYAML(t, `
http:
  user_agent: "Custom/1.0"
cache:
  enabled: false
research:
  depth: deep
  worker_budget: 10m
  max_key_findings: 3
llm:
  provider: ollama
search:
  base_url: "http://localhost:8888"
`)

	cfg := model.DefaultConfig()
	if err := loadFileConfig(v, cfg); err != nil {
		t.Fatalf("loadFileConfig failed: %v", err)
	}

	if cfg.HTTP.UserAgent != "Custom/1.0" {
		t.Errorf("Expected file user agent honored, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled by file")
	}
	if cfg.Research.Depth != model.DepthDeep {
		t.Errorf("Expected depth deep from file, got %q", cfg.Research.Depth)
	}
	if cfg.Research.WorkerBudget != 10*time.Minute {
		t.Errorf("Expected 10m worker budget from file, got %v", cfg.Research.WorkerBudget)
	}
	if cfg.Research.MaxKeyFindings != 3 {
		t.Errorf("Expected max key findings 3 from file, got %d", cfg.Research.MaxKeyFindings)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("Expected ollama provider from file, got %q", cfg.LLM.Provider)
	}
	if cfg.Search.BaseURL != "http://localhost:8888" {
		t.Errorf("Expected search URL from file, got %q", cfg.Search.BaseURL)
	}

	// Keys absent from the file keep their defaults
	if cfg.HTTP.MaxBodyBytes != 2_000_000 {
		t.Errorf("Expected default max body bytes retained, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Research.SimilarityThreshold != 0.8 {
		t.Errorf("Expected default similarity threshold retained, got %v", cfg.Research.SimilarityThreshold)
	}
}

func TestLoadFileConfig_EmptyFile(t *testing.T) {
	cfg := model.DefaultConfig()
	if err := loadFileConfig(viper.New(), cfg); err != nil {
		t.Fatalf("loadFileConfig failed: %v", err)
	}
	if cfg.Research.Depth != model.DepthMedium {
		t.Errorf("Expected defaults untouched without a file, got depth %q", cfg.Research.Depth)
	}
}

func TestResolveDepth(t *testing.T) {
	// Explicit flag wins over the file
	d, err := resolveDepth(true, "quick", model.DepthDeep)
	if err != nil || d != model.DepthQuick {
		t.Errorf("Expected flag depth quick, got %q (err %v)", d, err)
	}

	// File wins over the flag default
	d, err = resolveDepth(false, "medium", model.DepthDeep)
	if err != nil || d != model.DepthDeep {
		t.Errorf("Expected file depth deep, got %q (err %v)", d, err)
	}

	// Neither set falls back to the flag default
	d, err = resolveDepth(false, "medium", "")
	if err != nil || d != model.DepthMedium {
		t.Errorf("Expected default depth medium, got %q (err %v)", d, err)
	}

	// Bad file value surfaces an error
	if _, err := resolveDepth(false, "medium", model.DepthLevel("bottomless")); err == nil {
		t.Error("Expected error for invalid file depth")
	}
}
