package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Universe struct {
		Symbols []string          `yaml:"symbols"`
		Names   map[string]string `yaml:"names"`
		Groups  map[string]string `yaml:"groups"`  // symbol -> screening group
		Sectors map[string]string `yaml:"sectors"` // symbol -> market sector
	} `yaml:"universe"`
	Market struct {
		IndexSymbol   string  `yaml:"index_symbol"`
		HistoryBars   int     `yaml:"history_bars"`
		CacheTTLHours int     `yaml:"cache_ttl_hours"`
		ShortMAPeriod int     `yaml:"short_ma_period"`
		LongMAPeriod  int     `yaml:"long_ma_period"`
		TrendBandPct  float64 `yaml:"trend_band_pct"`
		LowVolCutoff  float64 `yaml:"low_vol_cutoff"`
		HighVolCutoff float64 `yaml:"high_vol_cutoff"`
	} `yaml:"market"`
	Analysis struct {
		HistoryBars     int     `yaml:"history_bars"`
		LookbackDays    int     `yaml:"lookback_days"`
		BaseOffsetPct   float64 `yaml:"base_offset_pct"`
		UseDynamicBands bool    `yaml:"use_dynamic_bands"`
		ATRPeriod       int     `yaml:"atr_period"`
		Concurrency     int     `yaml:"concurrency"`
	} `yaml:"analysis"`
	Signals struct {
		RSIPeriod         int     `yaml:"rsi_period"`
		RSIOversold       float64 `yaml:"rsi_oversold"`
		RSIOverbought     float64 `yaml:"rsi_overbought"`
		VolumeSurgeMult   float64 `yaml:"volume_surge_mult"`
		VolumeDryMult     float64 `yaml:"volume_dry_mult"`
		CrossWindow       int     `yaml:"cross_window"`
		ChaseRiskPct      float64 `yaml:"chase_risk_pct"`
		ProfitTargetFull  float64 `yaml:"profit_target_full"`
		ProfitTargetSplit float64 `yaml:"profit_target_split"`
	} `yaml:"signals"`
	Stop struct {
		FixedPct    float64 `yaml:"fixed_pct"`
		TrailingPct float64 `yaml:"trailing_pct"`
		MinTick     float64 `yaml:"min_tick"`
	} `yaml:"stop"`
	Rubric struct {
		Version string `yaml:"version"` // V1 or V2
	} `yaml:"rubric"`
	Ranking struct {
		MergedCap     int     `yaml:"merged_cap"`
		TopN          int     `yaml:"top_n"`
		TotalWeight   float64 `yaml:"total_weight"`
		SupplyWeight  float64 `yaml:"supply_weight"`
		FundWeight    float64 `yaml:"fund_weight"`
		DiversityBand float64 `yaml:"diversity_band"`
		SectorDiverse bool    `yaml:"sector_diverse"`
	} `yaml:"ranking"`
	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxArticles    int  `yaml:"max_articles"`
		CacheTTLHours  int  `yaml:"cache_ttl_hours"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
	Report struct {
		OutputDir string `yaml:"output_dir"`
		History   bool   `yaml:"history"`
	} `yaml:"report"`
}

func (c *Config) Validate() error {
	if len(c.Universe.Symbols) == 0 {
		return errors.New("universe.symbols cannot be empty")
	}
	if c.Analysis.BaseOffsetPct < 0 || c.Analysis.BaseOffsetPct >= 1 {
		return fmt.Errorf("analysis.base_offset_pct must be in [0, 1), got %.3f", c.Analysis.BaseOffsetPct)
	}
	if c.Stop.FixedPct < 0 || c.Stop.FixedPct >= 1 {
		return fmt.Errorf("stop.fixed_pct must be in [0, 1), got %.3f", c.Stop.FixedPct)
	}
	if c.Stop.TrailingPct < 0 || c.Stop.TrailingPct >= 1 {
		return fmt.Errorf("stop.trailing_pct must be in [0, 1), got %.3f", c.Stop.TrailingPct)
	}
	if c.Rubric.Version != "" && c.Rubric.Version != "V1" && c.Rubric.Version != "V2" {
		return fmt.Errorf("rubric.version must be 'V1' or 'V2', got '%s'", c.Rubric.Version)
	}
	if w := c.Ranking.TotalWeight + c.Ranking.SupplyWeight + c.Ranking.FundWeight; w != 0 && (w < 0.999 || w > 1.001) {
		return fmt.Errorf("ranking weights must sum to 1.0, got %.3f", w)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Market.IndexSymbol == "" {
		c.Market.IndexSymbol = "KOSPI"
	}
	if c.Market.HistoryBars == 0 {
		c.Market.HistoryBars = 80
	}
	if c.Market.CacheTTLHours == 0 {
		c.Market.CacheTTLHours = 1
	}
	if c.Analysis.HistoryBars == 0 {
		c.Analysis.HistoryBars = 120
	}
	if c.Analysis.LookbackDays == 0 {
		c.Analysis.LookbackDays = 60
	}
	if c.Analysis.BaseOffsetPct == 0 {
		c.Analysis.BaseOffsetPct = 0.15
	}
	if c.Analysis.ATRPeriod == 0 {
		c.Analysis.ATRPeriod = 14
	}
	if c.Analysis.Concurrency == 0 {
		c.Analysis.Concurrency = 8
	}
	if c.Stop.FixedPct == 0 {
		c.Stop.FixedPct = 0.07
	}
	if c.Stop.TrailingPct == 0 {
		c.Stop.TrailingPct = 0.10
	}
	if c.Rubric.Version == "" {
		c.Rubric.Version = "V2"
	}
	if c.Ranking.MergedCap == 0 {
		c.Ranking.MergedCap = 18
	}
	if c.Ranking.TopN == 0 {
		c.Ranking.TopN = 3
	}
	if c.Ranking.TotalWeight == 0 && c.Ranking.SupplyWeight == 0 && c.Ranking.FundWeight == 0 {
		c.Ranking.TotalWeight = 0.70
		c.Ranking.SupplyWeight = 0.15
		c.Ranking.FundWeight = 0.15
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.CacheTTLHours == 0 {
		c.News.CacheTTLHours = 1
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
