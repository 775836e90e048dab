package levels

import (
	"math"
	"testing"
	"time"

	"sector-rotation-bot/internal/types"
)

func barSeries(symbol string, closes []float64, rangeHalf []float64) types.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		h := rangeHalf[i]
		bars[i] = types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + h,
			Low:    c - h,
			Close:  c,
			Volume: 1000,
		}
	}
	return types.PriceSeries{Symbol: symbol, Bars: bars}
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestProfileEmptySeriesDefaultsToMedium(t *testing.T) {
	p := NewProfiler(14, 20)
	got := p.Profile(types.PriceSeries{})

	if got.Level != types.VolMedium {
		t.Errorf("Expected MEDIUM level, got %s", got.Level)
	}
	if got.AdjustmentFactor != 1.0 {
		t.Errorf("Expected adjustment factor 1.0, got %f", got.AdjustmentFactor)
	}
}

func TestProfileHighVolatility(t *testing.T) {
	// 1-bar ATR makes the ATR series equal the true-range series; a last
	// bar with a 10x wider range pushes the ratio far above 1.3.
	halves := flatCloses(20, 0.5)
	halves[19] = 5.0
	series := barSeries("TEST", flatCloses(20, 100), halves)

	got := NewProfiler(1, 20).Profile(series)
	if got.Level != types.VolHigh {
		t.Fatalf("Expected HIGH level, got %s (ratio %f)", got.Level, got.ATRRatio)
	}
	if got.AdjustmentFactor != 1.3 {
		t.Errorf("Expected adjustment factor 1.3, got %f", got.AdjustmentFactor)
	}
}

func TestProfileLowVolatility(t *testing.T) {
	halves := flatCloses(20, 0.5)
	halves[19] = 0.05
	series := barSeries("TEST", flatCloses(20, 100), halves)

	got := NewProfiler(1, 20).Profile(series)
	if got.Level != types.VolLow {
		t.Fatalf("Expected LOW level, got %s (ratio %f)", got.Level, got.ATRRatio)
	}
	if got.AdjustmentFactor != 0.8 {
		t.Errorf("Expected adjustment factor 0.8, got %f", got.AdjustmentFactor)
	}
}

func rampSeries(from, to float64, n int) types.PriceSeries {
	closes := make([]float64, n)
	halves := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range closes {
		closes[i] = from + step*float64(i)
		halves[i] = 100
	}
	return barSeries("TEST", closes, halves)
}

func TestThresholdsDynamic(t *testing.T) {
	series := rampSeries(70000, 80000, 20)
	profile := types.VolatilityProfile{
		Level:            types.VolLow,
		CurrentATR:       2000,
		AdjustmentFactor: 0.8,
	}

	set := NewCalculator(60, 0.15, true).Thresholds(series, profile)
	if !set.Valid {
		t.Fatal("Expected valid threshold set")
	}
	if set.FloorPrice != 70000 {
		t.Errorf("Expected floor 70000, got %f", set.FloorPrice)
	}
	if set.CeilingPrice != 80000 {
		t.Errorf("Expected ceiling 80000, got %f", set.CeilingPrice)
	}
	if set.DynamicKneePrice != 73200 {
		t.Errorf("Expected knee 73200, got %f", set.DynamicKneePrice)
	}
	if set.DynamicShoulderPrice != 76800 {
		t.Errorf("Expected shoulder 76800, got %f", set.DynamicShoulderPrice)
	}
}

func TestThresholdsStatic(t *testing.T) {
	series := rampSeries(70000, 80000, 20)

	set := NewCalculator(60, 0.15, false).Thresholds(series, types.VolatilityProfile{})
	if math.Abs(set.DynamicKneePrice-80500) > 1e-6 {
		t.Errorf("Expected static knee 80500, got %f", set.DynamicKneePrice)
	}
	if math.Abs(set.DynamicShoulderPrice-68000) > 1e-6 {
		t.Errorf("Expected static shoulder 68000, got %f", set.DynamicShoulderPrice)
	}
}

func TestThresholdsDegenerateSeries(t *testing.T) {
	series := rampSeries(70000, 71000, 5)

	set := NewCalculator(60, 0.15, true).Thresholds(series, types.VolatilityProfile{})
	if set.Valid {
		t.Error("Expected invalid threshold set for fewer than 10 bars")
	}
}

func TestPositionMetrics(t *testing.T) {
	closes := flatCloses(20, 75000)
	closes[0] = 70000
	closes[10] = 80000
	series := barSeries("TEST", closes, flatCloses(20, 100))

	calc := NewCalculator(60, 0.15, true)
	set := calc.Thresholds(series, types.VolatilityProfile{CurrentATR: 1000, AdjustmentFactor: 1.0})
	m := calc.Position(series, set)

	if math.Abs(m.FromFloorPct-5000.0/70000.0) > 1e-9 {
		t.Errorf("Expected from-floor %f, got %f", 5000.0/70000.0, m.FromFloorPct)
	}
	if math.Abs(m.FromCeilingPct+5000.0/80000.0) > 1e-9 {
		t.Errorf("Expected from-ceiling %f, got %f", -5000.0/80000.0, m.FromCeilingPct)
	}
	if math.Abs(m.PositionInRange-0.5) > 1e-9 {
		t.Errorf("Expected mid-range position 0.5, got %f", m.PositionInRange)
	}
}

func TestPositionInvalidSetDefaultsToMidpoint(t *testing.T) {
	m := NewCalculator(60, 0.15, true).Position(types.PriceSeries{}, types.ThresholdSet{})
	if m.PositionInRange != 0.5 {
		t.Errorf("Expected 0.5 for invalid set, got %f", m.PositionInRange)
	}
}
