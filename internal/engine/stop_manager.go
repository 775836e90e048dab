package engine

import (
	"context"

	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

// StopLossEngine evaluates the stop policy of open positions. A fixed stop
// sits a configured fraction below the entry price; once price has traded
// above entry a trailing stop follows the highest price, and the effective
// stop is whichever of the two is higher.
type StopLossEngine struct {
	fixedPct    float64 // loss fraction below entry for the fixed stop
	trailingPct float64 // giveback fraction below the highest price
	minTick     float64 // price tick for stop rounding, 0 disables
}

// NewStopLossEngine creates a stop engine; non-positive fractions fall back
// to the 7% fixed / 10% trailing defaults.
func NewStopLossEngine(fixedPct, trailingPct, minTick float64) *StopLossEngine {
	if fixedPct <= 0 {
		fixedPct = 0.07
	}
	if trailingPct <= 0 {
		trailingPct = 0.10
	}
	return &StopLossEngine{fixedPct: fixedPct, trailingPct: trailingPct, minTick: minTick}
}

// Evaluate computes the stop state for one position. highestPrice below the
// buy price means the position never traded above entry, so only the fixed
// stop applies.
func (e *StopLossEngine) Evaluate(ctx context.Context, symbol string, buyPrice, currentPrice, highestPrice float64) types.StopLossState {
	state := types.StopLossState{
		BuyPrice:     buyPrice,
		HighestPrice: highestPrice,
		CurrentPrice: currentPrice,
		Mode:         types.StopNone,
	}
	if buyPrice <= 0 || currentPrice <= 0 {
		return state
	}
	if highestPrice < currentPrice {
		highestPrice = currentPrice
		state.HighestPrice = highestPrice
	}

	state.FixedStopPrice = roundToTick(buyPrice*(1-e.fixedPct), e.minTick)
	state.StopPrice = state.FixedStopPrice
	state.Mode = types.StopFixed

	// Any trade above entry switches the position to trailing mode; the
	// effective stop is still the higher of the two stops.
	if highestPrice > buyPrice {
		trailing := roundToTick(highestPrice*(1-e.trailingPct), e.minTick)
		state.TrailingStopPrice = trailing
		state.Mode = types.StopTrailing
		if trailing > state.FixedStopPrice {
			state.StopPrice = trailing
		}
	}

	state.LossRate = ta.SafeDivide(currentPrice-buyPrice, buyPrice, 0)
	state.Triggered = currentPrice <= state.StopPrice

	if state.Triggered {
		logger.Warn(ctx, "stop loss triggered",
			"symbol", symbol,
			"event", "STOP_LOSS_TRIGGERED",
			"mode", string(state.Mode),
			"current_price", currentPrice,
			"stop_price", state.StopPrice,
			"buy_price", buyPrice,
			"highest_price", highestPrice,
			"loss_rate", state.LossRate,
		)
	}
	return state
}
