package levels

import (
	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

// minLookbackBars is the smallest window from which floor/ceiling extremes
// are considered meaningful; anything shorter is treated as degenerate.
const minLookbackBars = 10

// atrWidthMultiple scales the ATR into the dynamic knee/shoulder offset.
const atrWidthMultiple = 2.0

// Calculator derives floor/ceiling extremes and the knee/shoulder trigger
// prices from a price series.
type Calculator struct {
	lookback   int
	baseOffset float64
	useDynamic bool
}

// NewCalculator creates a threshold calculator. lookback defaults to 60
// bars, baseOffset to 0.15. useDynamic selects ATR-adaptive triggers over
// fixed-percentage ones.
func NewCalculator(lookback int, baseOffset float64, useDynamic bool) *Calculator {
	if lookback <= 0 {
		lookback = 60
	}
	if baseOffset <= 0 {
		baseOffset = 0.15
	}
	return &Calculator{lookback: lookback, baseOffset: baseOffset, useDynamic: useDynamic}
}

// Thresholds computes the threshold set for a series given its volatility
// profile. A degenerate series (fewer than minLookbackBars bars) returns a
// set with Valid=false rather than an error.
func (c *Calculator) Thresholds(series types.PriceSeries, profile types.VolatilityProfile) types.ThresholdSet {
	window := c.window(series)
	if len(window) < minLookbackBars {
		return types.ThresholdSet{}
	}

	set := types.ThresholdSet{Valid: true}
	set.FloorPrice = window[0].Close
	set.FloorDate = window[0].Date
	set.CeilingPrice = window[0].Close
	set.CeilingDate = window[0].Date
	for _, b := range window[1:] {
		if b.Close < set.FloorPrice {
			set.FloorPrice = b.Close
			set.FloorDate = b.Date
		}
		if b.Close > set.CeilingPrice {
			set.CeilingPrice = b.Close
			set.CeilingDate = b.Date
		}
	}

	if c.useDynamic {
		offset := profile.CurrentATR * atrWidthMultiple * profile.AdjustmentFactor
		set.DynamicKneePrice = set.FloorPrice + offset
		set.DynamicShoulderPrice = set.CeilingPrice - offset
	} else {
		set.DynamicKneePrice = set.FloorPrice * (1 + c.baseOffset)
		set.DynamicShoulderPrice = set.CeilingPrice * (1 - c.baseOffset)
	}

	last, _ := series.Last()
	price := last.Close
	set.AtKnee = price >= set.DynamicKneePrice && price < set.CeilingPrice
	set.AtShoulder = price <= set.DynamicShoulderPrice && price > set.FloorPrice

	return set
}

// Position locates the current price relative to the lookback extremes.
// Zero-range windows report the midpoint (0.5).
func (c *Calculator) Position(series types.PriceSeries, set types.ThresholdSet) types.PositionMetrics {
	if !set.Valid || series.Empty() {
		return types.PositionMetrics{PositionInRange: 0.5}
	}
	last, _ := series.Last()
	price := last.Close

	m := types.PositionMetrics{
		FromFloorPct:   ta.SafeDivide(price-set.FloorPrice, set.FloorPrice, 0),
		FromCeilingPct: ta.SafeDivide(price-set.CeilingPrice, set.CeilingPrice, 0),
	}
	m.PositionInRange = ta.SafeDivide(price-set.FloorPrice, set.CeilingPrice-set.FloorPrice, 0.5)
	m.PositionInRange = ta.Clamp(m.PositionInRange, 0, 1)
	return m
}

func (c *Calculator) window(series types.PriceSeries) []types.PriceBar {
	if series.Len() <= c.lookback {
		return series.Bars
	}
	return series.Bars[series.Len()-c.lookback:]
}
