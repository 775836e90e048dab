// Package interfaces defines the contracts this core consumes from external
// collaborators. Fetching, retry/backoff and persistence live behind these
// interfaces; the scoring core only ever sees materialized data.
package interfaces

import (
	"context"

	"sector-rotation-bot/internal/types"
)

// PriceProvider returns the recent daily price history for a symbol. On
// unrecoverable failure it returns an error wrapping
// types.ErrDataUnavailable; the batch runner records the symbol and moves
// on.
type PriceProvider interface {
	History(ctx context.Context, symbol string, bars int) (types.PriceSeries, error)
}

// FundamentalsProvider returns the typed fundamentals summary consumed by
// the rubric engine.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (types.FundamentalSnapshot, error)
}

// NewsProvider returns the aggregated news sentiment for a symbol.
type NewsProvider interface {
	Sentiment(ctx context.Context, symbol string) (types.NewsSentiment, error)
}

// PortfolioSource optionally supplies held-position context. ok is false
// when the symbol is not held.
type PortfolioSource interface {
	Position(symbol string) (types.PositionContext, bool)
}
