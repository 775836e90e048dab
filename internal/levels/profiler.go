package levels

import (
	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"

	"gonum.org/v1/gonum/stat"
)

// Volatility classification cutoffs: current ATR vs its recent average.
const (
	lowRatioCutoff  = 0.7
	highRatioCutoff = 1.3

	lowAdjustment    = 0.8
	mediumAdjustment = 1.0
	highAdjustment   = 1.3
)

// Profiler classifies a symbol's volatility from its own ATR history.
type Profiler struct {
	atrPeriod      int
	classifyWindow int
}

// NewProfiler creates a profiler. Non-positive arguments fall back to the
// defaults (14-bar ATR, 20-sample classification window).
func NewProfiler(atrPeriod, classifyWindow int) *Profiler {
	if atrPeriod <= 0 {
		atrPeriod = 14
	}
	if classifyWindow <= 0 {
		classifyWindow = 20
	}
	return &Profiler{atrPeriod: atrPeriod, classifyWindow: classifyWindow}
}

// Profile computes the volatility profile for a series. Short series are
// profiled over whatever bars exist; an empty or single-bar series yields
// the neutral MEDIUM default instead of an error.
func (p *Profiler) Profile(series types.PriceSeries) types.VolatilityProfile {
	if series.Len() < 2 {
		return defaultProfile()
	}

	atrs := ta.ATRSeries(series.Highs(), series.Lows(), series.Closes(), p.atrPeriod)
	if len(atrs) == 0 {
		return defaultProfile()
	}

	current := atrs[len(atrs)-1]

	window := p.classifyWindow
	if window > len(atrs) {
		window = len(atrs)
	}
	average := stat.Mean(atrs[len(atrs)-window:], nil)

	if current <= 0 || average <= 0 {
		// Flat series: no measurable range, treat as neutral.
		return defaultProfile()
	}

	ratio := ta.SafeDivide(current, average, 1.0)

	level, factor := types.VolMedium, mediumAdjustment
	switch {
	case ratio < lowRatioCutoff:
		level, factor = types.VolLow, lowAdjustment
	case ratio > highRatioCutoff:
		level, factor = types.VolHigh, highAdjustment
	}

	return types.VolatilityProfile{
		Level:            level,
		CurrentATR:       current,
		AverageATR:       average,
		ATRRatio:         ratio,
		AdjustmentFactor: factor,
	}
}

func defaultProfile() types.VolatilityProfile {
	return types.VolatilityProfile{
		Level:            types.VolMedium,
		AdjustmentFactor: mediumAdjustment,
	}
}
