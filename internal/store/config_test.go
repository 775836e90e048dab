package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
universe:
  symbols: ["005930"]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}

	if cfg.Market.IndexSymbol != "KOSPI" {
		t.Errorf("Expected default index KOSPI, got %s", cfg.Market.IndexSymbol)
	}
	if cfg.Analysis.HistoryBars != 120 {
		t.Errorf("Expected default 120 history bars, got %d", cfg.Analysis.HistoryBars)
	}
	if cfg.Analysis.LookbackDays != 60 {
		t.Errorf("Expected default 60 lookback days, got %d", cfg.Analysis.LookbackDays)
	}
	if cfg.Analysis.BaseOffsetPct != 0.15 {
		t.Errorf("Expected default 0.15 base offset, got %f", cfg.Analysis.BaseOffsetPct)
	}
	if cfg.Stop.FixedPct != 0.07 || cfg.Stop.TrailingPct != 0.10 {
		t.Errorf("Expected default stops 0.07/0.10, got %f/%f", cfg.Stop.FixedPct, cfg.Stop.TrailingPct)
	}
	if cfg.Ranking.TopN != 3 || cfg.Ranking.MergedCap != 18 {
		t.Errorf("Expected default ranking 3/18, got %d/%d", cfg.Ranking.TopN, cfg.Ranking.MergedCap)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
universe:
  symbols: ["005930", "000660"]
  groups:
    "005930": "semiconductor"
  sectors:
    "005930": "Electronics"
analysis:
  lookback_days: 40
  atr_period: 10
stop:
  fixed_pct: 0.05
rubric:
  version: "V1"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}

	if cfg.Analysis.LookbackDays != 40 {
		t.Errorf("Expected lookback 40, got %d", cfg.Analysis.LookbackDays)
	}
	if cfg.Stop.FixedPct != 0.05 {
		t.Errorf("Expected fixed stop 0.05, got %f", cfg.Stop.FixedPct)
	}
	if cfg.Rubric.Version != "V1" {
		t.Errorf("Expected rubric V1, got %s", cfg.Rubric.Version)
	}
	if cfg.Universe.Groups["005930"] != "semiconductor" {
		t.Errorf("Expected group mapping, got %q", cfg.Universe.Groups["005930"])
	}
	if cfg.Universe.Sectors["005930"] != "Electronics" {
		t.Errorf("Expected sector mapping, got %q", cfg.Universe.Sectors["005930"])
	}
}

func TestValidateRejectsEmptyUniverse(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err == nil {
		t.Error("Expected an error for an empty universe")
	}
}

func TestValidateRejectsBadVersion(t *testing.T) {
	c := &Config{}
	c.Universe.Symbols = []string{"005930"}
	c.Rubric.Version = "V9"
	if err := c.Validate(); err == nil {
		t.Error("Expected an error for an unknown rubric version")
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	c := &Config{}
	c.Universe.Symbols = []string{"005930"}
	c.Ranking.TotalWeight = 0.5
	c.Ranking.SupplyWeight = 0.1
	c.Ranking.FundWeight = 0.1
	if err := c.Validate(); err == nil {
		t.Error("Expected an error for ranking weights not summing to 1")
	}
}

func TestValidateRejectsBadStopPct(t *testing.T) {
	c := &Config{}
	c.Universe.Symbols = []string{"005930"}
	c.Stop.FixedPct = 1.5
	if err := c.Validate(); err == nil {
		t.Error("Expected an error for a stop fraction outside [0, 1)")
	}
}
