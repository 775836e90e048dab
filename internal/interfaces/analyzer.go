package interfaces

import (
	"context"

	"sector-rotation-bot/internal/types"
)

// Analyzer runs the scoring pipeline for one symbol or a whole batch. The
// regime snapshot passed to AnalyzeSymbol is captured once per batch so all
// symbols see the same market state.
type Analyzer interface {
	AnalyzeSymbol(ctx context.Context, symbol string, regime types.RegimeState) (*types.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, symbols []string) types.BatchResult
}
