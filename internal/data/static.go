// Package data supplies price and fundamentals providers for the analysis
// core. StaticProvider synthesizes deterministic daily bars for dry runs;
// FileProvider reads CSV history from disk.
package data

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/types"
)

// StaticProvider generates synthetic daily OHLCV series. Each symbol is
// seeded from its name so repeated calls return identical history.
type StaticProvider struct {
	now func() time.Time
}

var _ interfaces.PriceProvider = (*StaticProvider)(nil)

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{now: time.Now}
}

func (p *StaticProvider) History(ctx context.Context, symbol string, bars int) (types.PriceSeries, error) {
	if bars <= 0 {
		bars = 120
	}

	rng := rand.New(rand.NewSource(seedFor(symbol)))
	base := 20000 + rng.Float64()*80000
	drift := (rng.Float64() - 0.45) * 0.003

	end := p.now().Truncate(24 * time.Hour)
	out := make([]types.PriceBar, 0, bars)
	c := base

	for i := 0; i < bars; i++ {
		c = c * (1 + drift + (rng.Float64()-0.5)*0.02)
		h := c * (1 + rng.Float64()*0.015)
		l := c * (1 - rng.Float64()*0.015)
		out = append(out, types.PriceBar{
			Date:   end.AddDate(0, 0, i-bars),
			Open:   math.Min(math.Max(c*(1+(rng.Float64()-0.5)*0.01), l), h),
			High:   h,
			Low:    l,
			Close:  c,
			Volume: 100000 + rng.Float64()*900000,
		})
	}

	return types.PriceSeries{Symbol: symbol, Bars: out}, nil
}

func seedFor(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
