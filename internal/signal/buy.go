// Package signal scores buy and sell setups for a single symbol. Scorers
// are pure: they read a price series plus precomputed levels and regime
// state, and never touch the network.
package signal

import (
	"fmt"
	"math"

	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

const (
	scoreKnee        = 30.0
	scoreRSIOversold = 25.0
	scoreVolumeSurge = 20.0
	scoreGoldenCross = 25.0

	// regime adjustments for buy scores
	bearPenaltyFactor = 0.5
	bullBonusFactor   = 1.1
	strongSignalFloor = 80.0
)

// BuyConfig tunes the buy scorer.
type BuyConfig struct {
	RSIPeriod       int
	RSIOversold     float64
	VolumeWindow    int
	VolumeSurgeMult float64
	CrossShortMA    int
	CrossLongMA     int
	CrossWindow     int     // how many recent bars count as a fresh cross
	ChaseRiskPct    float64 // rise from floor beyond which chasing is flagged
	StopLossPct     float64 // recommended fixed stop below entry
}

// DefaultBuyConfig returns the default buy scorer configuration.
func DefaultBuyConfig() BuyConfig {
	return BuyConfig{
		RSIPeriod:       14,
		RSIOversold:     30,
		VolumeWindow:    20,
		VolumeSurgeMult: 2.0,
		CrossShortMA:    20,
		CrossLongMA:     60,
		CrossWindow:     5,
		ChaseRiskPct:    0.25,
		StopLossPct:     0.07,
	}
}

// BuyScorer scores long-entry setups.
type BuyScorer struct {
	cfg BuyConfig
}

// NewBuyScorer creates a buy scorer; zero config fields fall back to
// defaults.
func NewBuyScorer(cfg BuyConfig) *BuyScorer {
	def := DefaultBuyConfig()
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.RSIOversold <= 0 {
		cfg.RSIOversold = def.RSIOversold
	}
	if cfg.VolumeWindow <= 0 {
		cfg.VolumeWindow = def.VolumeWindow
	}
	if cfg.VolumeSurgeMult <= 0 {
		cfg.VolumeSurgeMult = def.VolumeSurgeMult
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
	if cfg.ChaseRiskPct <= 0 {
		cfg.ChaseRiskPct = def.ChaseRiskPct
	}
	if cfg.StopLossPct <= 0 {
		cfg.StopLossPct = def.StopLossPct
	}
	return &BuyScorer{cfg: cfg}
}

// Analyze scores a buy setup from the series, the threshold set computed
// for it, and its position metrics. The regime adjustment is applied last;
// an unknown regime leaves the raw score untouched.
func (s *BuyScorer) Analyze(
	series types.PriceSeries,
	set types.ThresholdSet,
	pos types.PositionMetrics,
	regime types.RegimeState,
) types.BuyAnalysis {
	out := types.BuyAnalysis{
		SignalScore: types.SignalScore{RegimeApplied: regime.Trend},
	}
	if series.Empty() {
		return out
	}
	closes := series.Closes()
	current := closes[len(closes)-1]

	out.RSI = ta.RSIOrNeutral(closes, s.cfg.RSIPeriod)
	out.RSIOversold = out.RSI < s.cfg.RSIOversold
	out.VolumeSurge = volumeRatioAtLeast(series.Volumes(), s.cfg.VolumeWindow, s.cfg.VolumeSurgeMult)
	out.GoldenCross, out.CrossDaysAgo = ta.CrossAbove(closes, s.cfg.CrossShortMA, s.cfg.CrossLongMA, s.cfg.CrossWindow)
	out.ChaseRisk = pos.FromFloorPct >= s.cfg.ChaseRiskPct
	out.StopLossPrice = current * (1 - s.cfg.StopLossPct)

	score := 0.0
	if set.Valid && set.AtKnee {
		score += scoreKnee
		out.Reasons = append(out.Reasons, "price at knee level")
	}
	if out.RSIOversold {
		score += scoreRSIOversold
		out.Reasons = append(out.Reasons, "RSI oversold")
	}
	if out.VolumeSurge {
		score += scoreVolumeSurge
		out.Reasons = append(out.Reasons, "volume surge")
	}
	if out.GoldenCross {
		score += scoreGoldenCross
		out.Reasons = append(out.Reasons, fmt.Sprintf("golden cross (%d days ago)", out.CrossDaysAgo))
	}
	out.RawScore = math.Min(score, 100)

	adjusted := out.RawScore
	switch regime.Trend {
	case types.TrendBear:
		if out.RawScore < strongSignalFloor {
			adjusted = out.RawScore * bearPenaltyFactor
			out.Reasons = append(out.Reasons, "bear market penalty")
		}
	case types.TrendBull:
		adjusted = out.RawScore * bullBonusFactor
		out.Reasons = append(out.Reasons, "bull market bonus")
	case types.TrendSideways:
		out.Reasons = append(out.Reasons, "sideways market")
	}
	out.AdjustedScore = ta.Clamp(adjusted, 0, 100)

	if out.ChaseRisk {
		out.Reasons = append(out.Reasons, "chase-buy risk: price extended from floor")
	}
	return out
}

// volumeRatioAtLeast reports whether the latest volume is at least mult
// times the trailing average. Short or zero-volume histories never
// qualify.
func volumeRatioAtLeast(volumes []float64, window int, mult float64) bool {
	if len(volumes) < window {
		return false
	}
	current := volumes[len(volumes)-1]
	avg := ta.SMA(volumes, window)
	if math.IsNaN(current) || math.IsNaN(avg) || avg <= 0 {
		return false
	}
	return current >= avg*mult
}

// volumeRatioAtMost reports whether the latest volume has contracted to at
// most mult times the trailing average.
func volumeRatioAtMost(volumes []float64, window int, mult float64) bool {
	if len(volumes) < window {
		return false
	}
	current := volumes[len(volumes)-1]
	avg := ta.SMA(volumes, window)
	if math.IsNaN(current) || math.IsNaN(avg) || avg <= 0 {
		return false
	}
	return current <= avg*mult
}
