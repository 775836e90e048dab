package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"sector-rotation-bot/internal/engine"
	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/ranking"
	"sector-rotation-bot/internal/report"
	"sector-rotation-bot/internal/store"
	"sector-rotation-bot/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Shutdown requested")
		cancel()
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	if cfg.Report.OutputDir != "" {
		report.SetDir(cfg.Report.OutputDir)
	}
	compressOldReports(ctx)

	prices := initializePrices(ctx)
	analyzer, err := initializeAnalyzer(cfg, prices, engine.Deps{
		Prices:       prices,
		Fundamentals: initializeFundamentals(ctx),
		News:         initializeNews(ctx, cfg),
		Portfolio:    engine.NewPortfolio(),
		Regime:       initializeRegime(cfg, prices),
	})
	must(err)

	logger.Info(ctx, "Starting batch analysis", "symbols", len(cfg.Universe.Symbols))
	batch := analyzer.AnalyzeBatch(ctx, cfg.Universe.Symbols)

	for _, r := range batch.Results {
		if err := report.Append(report.FromResult(r)); err != nil {
			logger.Warn(ctx, "Failed to append report entry", "symbol", r.Symbol, "error", err)
		}
	}
	for _, e := range batch.Errors {
		logger.Warn(ctx, "Symbol skipped", "symbol", e.Symbol, "reason", e.Reason)
	}

	result := rankBatch(cfg, batch)
	if cfg.Report.History {
		if err := report.AppendRanking(result); err != nil {
			logger.Warn(ctx, "Failed to append ranking entry", "error", err)
		}
	}

	printJSON(struct {
		Regime  types.RegimeState   `json:"regime"`
		Results int                 `json:"results"`
		Errors  []types.SymbolError `json:"errors,omitempty"`
		Ranking types.RankingResult `json:"ranking"`
	}{batch.Regime, len(batch.Results), batch.Errors, result})

	logger.Info(ctx, "Analysis complete",
		"results", len(batch.Results),
		"errors", len(batch.Errors),
		"top", len(result.FinalTop),
	)
}

// rankBatch groups scored results into per-group slates and runs the
// ranking aggregator over them.
func rankBatch(cfg *store.Config, batch types.BatchResult) types.RankingResult {
	slates := make(map[string]*types.GroupSlate)
	order := make([]string, 0)

	groupOf := func(symbol string) string {
		if g, ok := cfg.Universe.Groups[symbol]; ok && g != "" {
			return g
		}
		return "default"
	}

	// Every configured group gets a slate so dry groups are reported.
	for _, sym := range cfg.Universe.Symbols {
		g := groupOf(sym)
		if _, ok := slates[g]; !ok {
			slates[g] = &types.GroupSlate{Group: g}
			order = append(order, g)
		}
	}

	for _, r := range batch.Results {
		if r.Rubric == nil {
			continue
		}
		g := groupOf(r.Symbol)
		slates[g].Candidates = append(slates[g].Candidates, types.Candidate{
			Symbol: r.Symbol,
			Name:   r.Name,
			// unmapped symbols stay sectorless and never win a
			// diversity swap
			Sector: cfg.Universe.Sectors[r.Symbol],
			Group:  g,
			Rubric: *r.Rubric,
		})
	}

	// Each group contributes only its strongest candidates.
	ordered := make([]types.GroupSlate, 0, len(order))
	for _, g := range order {
		s := *slates[g]
		sort.SliceStable(s.Candidates, func(i, j int) bool {
			return s.Candidates[i].Rubric.Total > s.Candidates[j].Rubric.Total
		})
		if n := cfg.Ranking.TopN; n > 0 && len(s.Candidates) > n {
			s.Candidates = s.Candidates[:n]
		}
		ordered = append(ordered, s)
	}

	agg := ranking.NewAggregator(ranking.Config{
		MergedCap:     cfg.Ranking.MergedCap,
		TopN:          cfg.Ranking.TopN,
		TotalWeight:   cfg.Ranking.TotalWeight,
		SupplyWeight:  cfg.Ranking.SupplyWeight,
		FundWeight:    cfg.Ranking.FundWeight,
		DiversityBand: cfg.Ranking.DiversityBand,
		SectorDiverse: cfg.Ranking.SectorDiverse,
	})
	return agg.Rank(ordered)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("marshal output: %v", err)
		return
	}
	fmt.Println(string(b))
}
