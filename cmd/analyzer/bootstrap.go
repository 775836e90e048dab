package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sector-rotation-bot/internal/data"
	"sector-rotation-bot/internal/engine"
	"sector-rotation-bot/internal/engine/engineobs"
	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/market"
	"sector-rotation-bot/internal/news"
	"sector-rotation-bot/internal/report"
	"sector-rotation-bot/internal/store"
	"sector-rotation-bot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldReports compresses old report files if retention is configured
func compressOldReports(ctx context.Context) {
	if v := os.Getenv("ANALYZER_REPORT_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := report.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old reports", "error", err)
		}
	}
}

// initializePrices selects the price provider. A data directory from
// ANALYZER_DATA_DIR serves CSV history; otherwise deterministic synthetic
// bars are used.
func initializePrices(ctx context.Context) interfaces.PriceProvider {
	if dir := os.Getenv("ANALYZER_DATA_DIR"); dir != "" {
		logger.Info(ctx, "Using CSV price history", "dir", dir)
		return data.NewFileProvider(dir)
	}
	logger.Warn(ctx, "ANALYZER_DATA_DIR not set - using synthetic price data")
	return data.NewStaticProvider()
}

// initializeFundamentals loads the fundamentals file if present
func initializeFundamentals(ctx context.Context) interfaces.FundamentalsProvider {
	path := os.Getenv("ANALYZER_FUNDAMENTALS_FILE")
	if path == "" {
		path = "fundamentals.json"
	}
	fp, err := data.LoadFundamentals(path)
	if err != nil {
		logger.Warn(ctx, "Failed to load fundamentals - scoring at neutral", "error", err)
		return data.NewStaticFundamentals(nil)
	}
	return fp
}

// initializeNews builds the news sentiment service from config
func initializeNews(ctx context.Context, cfg *store.Config) interfaces.NewsProvider {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News sentiment disabled in config")
	}
	return news.NewService(&news.ServiceConfig{
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  time.Duration(cfg.News.CacheTTLHours) * time.Hour,
		ScraperTimeout: time.Duration(cfg.News.TimeoutSeconds) * time.Second,
		Enabled:        cfg.News.Enabled,
	})
}

// initializeAnalyzer wires the analysis engine with observability
func initializeAnalyzer(cfg *store.Config, prices interfaces.PriceProvider, cfgDeps engine.Deps) (interfaces.Analyzer, error) {
	eng, err := engine.New(cfg, cfgDeps)
	if err != nil {
		return nil, err
	}

	// Wrap with observability middleware
	return engineobs.Wrap(eng), nil
}

// initializeRegime builds the market regime classifier over the index
func initializeRegime(cfg *store.Config, prices interfaces.PriceProvider) *market.Classifier {
	return market.NewClassifier(prices, market.ClassifierConfig{
		IndexSymbol:   cfg.Market.IndexSymbol,
		HistoryBars:   cfg.Market.HistoryBars,
		CacheTTL:      time.Duration(cfg.Market.CacheTTLHours) * time.Hour,
		ShortMAPeriod: cfg.Market.ShortMAPeriod,
		LongMAPeriod:  cfg.Market.LongMAPeriod,
		TrendBandPct:  cfg.Market.TrendBandPct,
		LowVolCutoff:  cfg.Market.LowVolCutoff,
		HighVolCutoff: cfg.Market.HighVolCutoff,
	})
}
