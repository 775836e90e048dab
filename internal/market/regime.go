// Package market classifies the overall market regime from an index price
// series. All symbol-level signal adjustments key off the RegimeState
// produced here.
package market

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/logger"
	"sector-rotation-bot/internal/ta"
	"sector-rotation-bot/internal/types"
)

// ClassifierConfig tunes the regime classifier.
type ClassifierConfig struct {
	IndexSymbol string        // index used for regime classification
	HistoryBars int           // bars requested from the price provider
	CacheTTL    time.Duration // how long a classified regime stays fresh

	ShortMAPeriod int // short moving-average window
	LongMAPeriod  int // long moving-average window

	// trend band around the long MA; a diff at or strictly inside the band
	// is SIDEWAYS, strictly beyond it trends
	TrendBandPct float64

	// daily return stddev cutoffs for index volatility buckets
	LowVolCutoff    float64
	HighVolCutoff   float64
	VolReturnWindow int
}

// DefaultClassifierConfig returns the default configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		IndexSymbol:     "KOSPI",
		HistoryBars:     80,
		CacheTTL:        1 * time.Hour,
		ShortMAPeriod:   20,
		LongMAPeriod:    60,
		TrendBandPct:    0.02,
		LowVolCutoff:    0.01,
		HighVolCutoff:   0.02,
		VolReturnWindow: 20,
	}
}

// Classifier computes and caches the market regime. Concurrent callers
// share a single in-flight classification; a cached state is served until
// its TTL expires.
type Classifier struct {
	prices interfaces.PriceProvider
	cfg    ClassifierConfig
	now    func() time.Time

	mu     sync.RWMutex
	cached types.RegimeState
	hasVal bool

	group singleflight.Group
}

// NewClassifier creates a regime classifier backed by the given price
// provider. A zero IndexSymbol or CacheTTL falls back to defaults.
func NewClassifier(prices interfaces.PriceProvider, cfg ClassifierConfig) *Classifier {
	def := DefaultClassifierConfig()
	if cfg.IndexSymbol == "" {
		cfg.IndexSymbol = def.IndexSymbol
	}
	if cfg.HistoryBars <= 0 {
		cfg.HistoryBars = def.HistoryBars
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.ShortMAPeriod <= 0 {
		cfg.ShortMAPeriod = def.ShortMAPeriod
	}
	if cfg.LongMAPeriod <= 0 {
		cfg.LongMAPeriod = def.LongMAPeriod
	}
	if cfg.TrendBandPct <= 0 {
		cfg.TrendBandPct = def.TrendBandPct
	}
	if cfg.LowVolCutoff <= 0 {
		cfg.LowVolCutoff = def.LowVolCutoff
	}
	if cfg.HighVolCutoff <= 0 {
		cfg.HighVolCutoff = def.HighVolCutoff
	}
	if cfg.VolReturnWindow <= 0 {
		cfg.VolReturnWindow = def.VolReturnWindow
	}
	return &Classifier{
		prices: prices,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Current returns the market regime, serving from cache when fresh.
// Classification failures are not fatal: the returned state carries
// TrendUnknown/VolUnknown and callers apply it as a no-op.
func (c *Classifier) Current(ctx context.Context) types.RegimeState {
	c.mu.RLock()
	if c.hasVal && c.now().Sub(c.cached.ComputedAt) < c.cfg.CacheTTL {
		state := c.cached
		c.mu.RUnlock()
		return state
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(c.cfg.IndexSymbol, func() (interface{}, error) {
		// Re-check under the flight: another caller may have refreshed
		// the cache while this one waited.
		c.mu.RLock()
		if c.hasVal && c.now().Sub(c.cached.ComputedAt) < c.cfg.CacheTTL {
			state := c.cached
			c.mu.RUnlock()
			return state, nil
		}
		c.mu.RUnlock()

		state := c.classify(ctx)
		if state.Known() {
			c.mu.Lock()
			c.cached = state
			c.hasVal = true
			c.mu.Unlock()
		}
		return state, nil
	})
	return v.(types.RegimeState)
}

// Refresh discards the cached state and classifies again.
func (c *Classifier) Refresh(ctx context.Context) types.RegimeState {
	c.mu.Lock()
	c.hasVal = false
	c.mu.Unlock()
	return c.Current(ctx)
}

func (c *Classifier) classify(ctx context.Context) types.RegimeState {
	state := types.RegimeState{
		Trend:      types.TrendUnknown,
		Volatility: types.VolUnknown,
		ComputedAt: c.now(),
	}

	series, err := c.prices.History(ctx, c.cfg.IndexSymbol, c.cfg.HistoryBars)
	if err != nil {
		logger.ErrorWithErr(ctx, "index history unavailable, regime unknown", err,
			"index", c.cfg.IndexSymbol)
		return state
	}
	closes := series.Closes()
	if len(closes) < c.cfg.LongMAPeriod {
		logger.Warn(ctx, "index history too short for regime classification",
			"index", c.cfg.IndexSymbol, "bars", len(closes), "needed", c.cfg.LongMAPeriod)
		return state
	}

	shortMA := ta.SMA(closes, c.cfg.ShortMAPeriod)
	longMA := ta.SMA(closes, c.cfg.LongMAPeriod)
	if math.IsNaN(shortMA) || math.IsNaN(longMA) || longMA <= 0 {
		return state
	}

	diff := (shortMA - longMA) / longMA
	switch {
	case diff > c.cfg.TrendBandPct:
		state.Trend = types.TrendBull
	case diff < -c.cfg.TrendBandPct:
		state.Trend = types.TrendBear
	default:
		state.Trend = types.TrendSideways
	}
	state.TrendDiffPct = diff
	state.ShortMA = shortMA
	state.LongMA = longMA
	state.IndexClose = closes[len(closes)-1]

	vol := ta.ReturnStdDev(closes, c.cfg.VolReturnWindow)
	if !math.IsNaN(vol) {
		state.VolatilityValue = vol
		switch {
		case vol < c.cfg.LowVolCutoff:
			state.Volatility = types.VolLow
		case vol > c.cfg.HighVolCutoff:
			state.Volatility = types.VolHigh
		default:
			state.Volatility = types.VolMedium
		}
	}

	logger.Info(ctx, "market regime classified",
		"index", c.cfg.IndexSymbol,
		"trend", string(state.Trend),
		"trend_diff_pct", diff,
		"volatility", string(state.Volatility),
		"volatility_value", state.VolatilityValue)
	return state
}
