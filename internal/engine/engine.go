// Package engine orchestrates a full analysis run: per-symbol volatility,
// thresholds, buy/sell scoring, stop evaluation and rubric grading, fanned
// out across the universe under one shared regime snapshot.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/levels"
	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/market"
	"sector-rotation-bot/internal/rubric"
	"sector-rotation-bot/internal/signal"
	"sector-rotation-bot/internal/store"
	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

// Deps bundles the external collaborators an Analyzer needs. Fundamentals,
// News and Portfolio may be nil; the affected scores degrade to neutral.
type Deps struct {
	Prices       interfaces.PriceProvider
	Fundamentals interfaces.FundamentalsProvider
	News         interfaces.NewsProvider
	Portfolio    interfaces.PortfolioSource
	Regime       *market.Classifier
}

// Analyzer runs the scoring pipeline for single symbols and whole batches.
type Analyzer struct {
	cfg      *store.Config
	deps     Deps
	profiler *levels.Profiler
	calc     *levels.Calculator
	buy      *signal.BuyScorer
	sell     *signal.SellScorer
	stops    *StopLossEngine
	rubric   *rubric.Engine
	now      func() time.Time
}

// New wires an Analyzer from config. The price provider and regime
// classifier are mandatory.
func New(cfg *store.Config, deps Deps) (*Analyzer, error) {
	if deps.Prices == nil {
		return nil, fmt.Errorf("engine: price provider is required")
	}
	if deps.Regime == nil {
		return nil, fmt.Errorf("engine: regime classifier is required")
	}
	rub, err := rubric.NewEngine(cfg.Rubric.Version)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		cfg:      cfg,
		deps:     deps,
		profiler: levels.NewProfiler(cfg.Analysis.ATRPeriod, 0),
		calc:     levels.NewCalculator(cfg.Analysis.LookbackDays, cfg.Analysis.BaseOffsetPct, cfg.Analysis.UseDynamicBands),
		buy: signal.NewBuyScorer(signal.BuyConfig{
			RSIPeriod:       cfg.Signals.RSIPeriod,
			RSIOversold:     cfg.Signals.RSIOversold,
			VolumeSurgeMult: cfg.Signals.VolumeSurgeMult,
			CrossWindow:     cfg.Signals.CrossWindow,
			ChaseRiskPct:    cfg.Signals.ChaseRiskPct,
			StopLossPct:     cfg.Stop.FixedPct,
		}),
		sell: signal.NewSellScorer(signal.SellConfig{
			RSIPeriod:         cfg.Signals.RSIPeriod,
			RSIOverbought:     cfg.Signals.RSIOverbought,
			VolumeDryMult:     cfg.Signals.VolumeDryMult,
			CrossWindow:       cfg.Signals.CrossWindow,
			ProfitTargetFull:  cfg.Signals.ProfitTargetFull,
			ProfitTargetSplit: cfg.Signals.ProfitTargetSplit,
		}),
		stops:  NewStopLossEngine(cfg.Stop.FixedPct, cfg.Stop.TrailingPct, cfg.Stop.MinTick),
		rubric: rub,
		now:    time.Now,
	}, nil
}

// AnalyzeSymbol scores one symbol under the supplied regime snapshot.
func (a *Analyzer) AnalyzeSymbol(ctx context.Context, symbol string, regime types.RegimeState) (*types.AnalysisResult, error) {
	series, err := a.deps.Prices.History(ctx, symbol, a.cfg.Analysis.HistoryBars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if series.Empty() {
		return nil, fmt.Errorf("%s: %w", symbol, types.ErrDataUnavailable)
	}

	result := &types.AnalysisResult{
		Symbol:      symbol,
		Name:        a.cfg.Universe.Names[symbol],
		Regime:      regime,
		EvaluatedAt: a.now(),
	}
	if err := series.Validate(); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("price series: %v", err))
	}
	closes := series.Closes()
	current := closes[len(closes)-1]
	result.CurrentPrice = current

	result.Volatility = a.profiler.Profile(series)
	result.Thresholds = a.calc.Thresholds(series, result.Volatility)
	result.Position = a.calc.Position(series, result.Thresholds)
	if !result.Thresholds.Valid {
		result.Warnings = append(result.Warnings, "insufficient history for floor/ceiling thresholds")
	}
	if !regime.Known() {
		result.Warnings = append(result.Warnings, "market regime unknown, no regime adjustment applied")
	}

	result.Buy = a.buy.Analyze(series, result.Thresholds, result.Position, regime)
	if result.Buy.ChaseRisk {
		result.Warnings = append(result.Warnings, "chase-buy risk: price extended from recent floor")
	}

	var posCtx *types.PositionContext
	var stop *types.StopLossState
	if a.deps.Portfolio != nil {
		if pos, held := a.deps.Portfolio.Position(symbol); held {
			posCtx = &pos
			st := a.stops.Evaluate(ctx, symbol, pos.BuyPrice, current, pos.HighestPrice)
			stop = &st
		}
	}
	result.Sell = a.sell.Analyze(series, result.Thresholds, regime, posCtx, stop)

	score := a.rubric.Score(a.rubricInputs(ctx, symbol, result, series))
	result.Rubric = &score

	result.Action, result.Recommendation = decideAction(posCtx != nil, result.Buy, result.Sell)

	logger.Info(ctx, "symbol analyzed",
		"symbol", symbol,
		"price", current,
		"buy_score", result.Buy.AdjustedScore,
		"sell_score", result.Sell.AdjustedScore,
		"rubric_total", score.Total,
		"grade", string(score.Grade),
		"action", result.Action,
	)
	return result, nil
}

// rubricInputs assembles the rubric view of one analyzed symbol. Optional
// providers contribute when present; everything else stays nil and scores
// neutral.
func (a *Analyzer) rubricInputs(ctx context.Context, symbol string, result *types.AnalysisResult, series types.PriceSeries) rubric.Inputs {
	closes := series.Closes()
	current := closes[len(closes)-1]

	in := rubric.Inputs{
		Symbol:       symbol,
		Name:         result.Name,
		RSI:          f64(result.Buy.RSI),
		CurrentPrice: f64(current),
	}
	in.MA20 = smaPtr(closes, 20)
	in.MA60 = smaPtr(closes, 60)
	if result.Thresholds.Valid {
		in.Low52W = f64(result.Thresholds.FloorPrice)
		in.High52W = f64(result.Thresholds.CeilingPrice)
	}
	if current > 0 && result.Volatility.CurrentATR > 0 {
		in.ATRPct = f64(result.Volatility.CurrentATR / current * 100)
	}

	if a.deps.Fundamentals != nil {
		if f, err := a.deps.Fundamentals.Fundamentals(ctx, symbol); err != nil {
			logger.Warn(ctx, "fundamentals unavailable", "symbol", symbol, "error", err.Error())
			result.Warnings = append(result.Warnings, "fundamentals unavailable")
		} else {
			in.Fundamentals = &f
		}
	}
	if a.deps.News != nil {
		if s, err := a.deps.News.Sentiment(ctx, symbol); err != nil {
			logger.Warn(ctx, "news sentiment unavailable", "symbol", symbol, "error", err.Error())
			result.Warnings = append(result.Warnings, "news sentiment unavailable")
		} else {
			in.NewsAvgSentiment = f64(s.AvgScore)
		}
	}
	return in
}

// AnalyzeBatch fans symbol analysis out across a bounded worker pool. One
// regime snapshot is captured before the fan-out, so every symbol in the
// batch is adjusted against the same market state. Per-symbol failures
// become error records; they never abort the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, symbols []string) types.BatchResult {
	regime := a.deps.Regime.Current(ctx)

	results := make([]*types.AnalysisResult, len(symbols))
	errs := make([]*types.SymbolError, len(symbols))

	limit := a.cfg.Analysis.Concurrency
	if limit <= 0 {
		limit = 8
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			res, err := a.AnalyzeSymbol(gctx, symbol, regime)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.ErrorWithErr(gctx, "symbol analysis failed", err, "symbol", symbol)
				errs[i] = &types.SymbolError{Symbol: symbol, Reason: err.Error()}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	batch := types.BatchResult{Regime: regime}
	for i := range symbols {
		if results[i] != nil {
			batch.Results = append(batch.Results, *results[i])
		}
		if errs[i] != nil {
			batch.Errors = append(batch.Errors, *errs[i])
		}
	}
	logger.Info(ctx, "batch analysis complete",
		"symbols", len(symbols),
		"analyzed", len(batch.Results),
		"failed", len(batch.Errors),
	)
	return batch
}

func f64(v float64) *float64 { return &v }

func smaPtr(closes []float64, n int) *float64 {
	v := ta.SMA(closes, n)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
