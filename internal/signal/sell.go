package signal

import (
	"fmt"
	"math"

	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

const (
	scoreShoulder      = 30.0
	scoreRSIOverbought = 25.0
	scoreVolumeDry     = 20.0
	scoreDeadCross     = 25.0

	// regime adjustments for sell scores
	bullSellDamp  = 0.7
	bearSellBoost = 1.2

	// normalized volatility: daily return stddev of 0.05 or more maps to 1.0
	volNormalizeCeiling = 0.05
	highVolStrategyCut  = 0.5
)

// SellConfig tunes the sell scorer.
type SellConfig struct {
	RSIPeriod         int
	RSIOverbought     float64
	VolumeWindow      int
	VolumeDryMult     float64 // contraction cutoff vs trailing average
	CrossShortMA      int
	CrossLongMA       int
	CrossWindow       int
	ProfitTargetFull  float64 // profit rate recommending a full exit
	ProfitTargetSplit float64 // profit rate recommending a partial exit
	VolatilityWindow  int
}

// DefaultSellConfig returns the default sell scorer configuration.
func DefaultSellConfig() SellConfig {
	return SellConfig{
		RSIPeriod:         14,
		RSIOverbought:     70,
		VolumeWindow:      20,
		VolumeDryMult:     0.7,
		CrossShortMA:      20,
		CrossLongMA:       60,
		CrossWindow:       5,
		ProfitTargetFull:  0.30,
		ProfitTargetSplit: 0.15,
		VolatilityWindow:  20,
	}
}

// SellScorer scores exit setups for held or watched symbols.
type SellScorer struct {
	cfg SellConfig
}

// NewSellScorer creates a sell scorer; zero config fields fall back to
// defaults.
func NewSellScorer(cfg SellConfig) *SellScorer {
	def := DefaultSellConfig()
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.RSIOverbought <= 0 {
		cfg.RSIOverbought = def.RSIOverbought
	}
	if cfg.VolumeWindow <= 0 {
		cfg.VolumeWindow = def.VolumeWindow
	}
	if cfg.VolumeDryMult <= 0 {
		cfg.VolumeDryMult = def.VolumeDryMult
	}
	if cfg.CrossShortMA <= 0 {
		cfg.CrossShortMA = def.CrossShortMA
	}
	if cfg.CrossLongMA <= 0 {
		cfg.CrossLongMA = def.CrossLongMA
	}
	if cfg.CrossWindow <= 0 {
		cfg.CrossWindow = def.CrossWindow
	}
	if cfg.ProfitTargetFull <= 0 {
		cfg.ProfitTargetFull = def.ProfitTargetFull
	}
	if cfg.ProfitTargetSplit <= 0 {
		cfg.ProfitTargetSplit = def.ProfitTargetSplit
	}
	if cfg.VolatilityWindow <= 0 {
		cfg.VolatilityWindow = def.VolatilityWindow
	}
	return &SellScorer{cfg: cfg}
}

// Analyze scores a sell setup. pos is nil when the symbol is not held;
// stop is the evaluated stop-loss state for a held position, or nil. A
// triggered stop overrides everything: the adjusted score is forced to
// 100 after the regime adjustment and the stop reason is prepended.
func (s *SellScorer) Analyze(
	series types.PriceSeries,
	set types.ThresholdSet,
	regime types.RegimeState,
	pos *types.PositionContext,
	stop *types.StopLossState,
) types.SellAnalysis {
	out := types.SellAnalysis{
		SignalScore: types.SignalScore{RegimeApplied: regime.Trend},
		Strategy:    types.StrategyNoPosition,
		StopLoss:    stop,
	}
	if series.Empty() {
		return out
	}
	closes := series.Closes()
	current := closes[len(closes)-1]

	out.RSI = ta.RSIOrNeutral(closes, s.cfg.RSIPeriod)
	out.RSIOverbought = out.RSI > s.cfg.RSIOverbought
	out.VolumeContraction = volumeRatioAtMost(series.Volumes(), s.cfg.VolumeWindow, s.cfg.VolumeDryMult)
	out.DeadCross, out.CrossDaysAgo = ta.CrossBelow(closes, s.cfg.CrossShortMA, s.cfg.CrossLongMA, s.cfg.CrossWindow)
	out.Volatility = s.normalizedVolatility(closes)

	if pos != nil && pos.BuyPrice > 0 {
		rate := (current - pos.BuyPrice) / pos.BuyPrice
		out.ProfitRate = &rate
	}
	out.Strategy = s.recommendStrategy(out.ProfitRate, out.Volatility)

	score := 0.0
	if set.Valid && set.AtShoulder {
		score += scoreShoulder
		out.Reasons = append(out.Reasons, "price at shoulder level")
	}
	if out.RSIOverbought {
		score += scoreRSIOverbought
		out.Reasons = append(out.Reasons, "RSI overbought")
	}
	if out.VolumeContraction {
		score += scoreVolumeDry
		out.Reasons = append(out.Reasons, "volume contraction")
	}
	if out.DeadCross {
		score += scoreDeadCross
		out.Reasons = append(out.Reasons, fmt.Sprintf("dead cross (%d days ago)", out.CrossDaysAgo))
	}
	out.RawScore = math.Min(score, 100)

	adjusted := out.RawScore
	switch regime.Trend {
	case types.TrendBull:
		if out.RawScore < strongSignalFloor {
			adjusted = out.RawScore * bullSellDamp
			out.Reasons = append(out.Reasons, "bull market: holding favored")
		}
	case types.TrendBear:
		adjusted = out.RawScore * bearSellBoost
		out.Reasons = append(out.Reasons, "bear market: exits favored")
	case types.TrendSideways:
		out.Reasons = append(out.Reasons, "sideways market")
	}
	out.AdjustedScore = ta.Clamp(adjusted, 0, 100)

	// A triggered stop takes final precedence, after the regime filter.
	if stop != nil && stop.Triggered {
		out.AdjustedScore = 100
		reason := fmt.Sprintf("stop loss triggered (%s at %.2f, loss %.1f%%)",
			stop.Mode, stop.StopPrice, stop.LossRate*100)
		out.Reasons = append([]string{reason}, out.Reasons...)
		out.Strategy = types.StrategyFullExit
	}
	return out
}

// normalizedVolatility maps the trailing daily-return stddev into [0, 1];
// a stddev at or above 0.05 saturates to 1.
func (s *SellScorer) normalizedVolatility(closes []float64) float64 {
	std := ta.ReturnStdDev(closes, s.cfg.VolatilityWindow)
	if math.IsNaN(std) {
		return 0
	}
	return math.Min(std/volNormalizeCeiling, 1.0)
}

// recommendStrategy maps profit rate and volatility into an exit strategy.
// High-volatility winners split in halves, calmer ones in thirds.
func (s *SellScorer) recommendStrategy(profitRate *float64, volatility float64) types.SellStrategy {
	if profitRate == nil {
		return types.StrategyNoPosition
	}
	switch {
	case *profitRate >= s.cfg.ProfitTargetFull:
		return types.StrategyFullExit
	case *profitRate >= s.cfg.ProfitTargetSplit:
		if volatility > highVolStrategyCut {
			return types.StrategyPartialHalf
		}
		return types.StrategyPartialThird
	default:
		return types.StrategyHold
	}
}
