// Package engineobs decorates an Analyzer with tracing spans and timing
// logs. The wrapped analyzer stays unaware of observability concerns.
package engineobs

import (
	"context"
	"time"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/trace"
	"sector-rotation-bot/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

func Wrap(a interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{analyzer: a}
}

func (oa *observableAnalyzer) AnalyzeSymbol(ctx context.Context, symbol string, regime types.RegimeState) (*types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "analyzer.AnalyzeSymbol")
	defer span.End()

	start := time.Now()
	result, err := oa.analyzer.AnalyzeSymbol(ctx, symbol, regime)
	if err != nil {
		logger.ErrorWithErr(ctx, "symbol analysis failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info(ctx, "symbol analysis completed",
		"symbol", symbol,
		"action", result.Action,
		"recommendation", result.Recommendation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (oa *observableAnalyzer) AnalyzeBatch(ctx context.Context, symbols []string) types.BatchResult {
	ctx, span := trace.StartSpan(ctx, "analyzer.AnalyzeBatch")
	defer span.End()

	start := time.Now()
	batch := oa.analyzer.AnalyzeBatch(ctx, symbols)

	logger.Info(ctx, "batch analysis completed",
		"symbols", len(symbols),
		"analyzed", len(batch.Results),
		"failed", len(batch.Errors),
		"regime", string(batch.Regime.Trend),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return batch
}
