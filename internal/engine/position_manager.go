package engine

import (
	"sync"

	"sector-rotation-bot/internal/types"
)

// Portfolio is an in-memory PortfolioSource. It tracks the entry price,
// quantity and running high-water mark per held symbol so the stop engine
// can trail correctly across runs.
type Portfolio struct {
	mu        sync.RWMutex
	positions map[string]types.PositionContext
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]types.PositionContext)}
}

// Position returns the held-position context for a symbol. A nil portfolio
// holds nothing, so callers may store a nil *Portfolio in a PortfolioSource
// without guarding every lookup.
func (p *Portfolio) Position(symbol string) (types.PositionContext, bool) {
	if p == nil {
		return types.PositionContext{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	pos, ok := p.positions[symbol]
	return pos, ok
}

// Set records or replaces a position. A highest price below the buy price
// is lifted to the buy price.
func (p *Portfolio) Set(symbol string, pos types.PositionContext) {
	if pos.HighestPrice < pos.BuyPrice {
		pos.HighestPrice = pos.BuyPrice
	}
	p.mu.Lock()
	p.positions[symbol] = pos
	p.mu.Unlock()
}

// ObserveHigh raises the high-water mark of a held symbol. A price at or
// below the current mark is a no-op.
func (p *Portfolio) ObserveHigh(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.positions[symbol]
	if !ok || price <= pos.HighestPrice {
		return
	}
	pos.HighestPrice = price
	p.positions[symbol] = pos
}

// Remove closes a position.
func (p *Portfolio) Remove(symbol string) {
	p.mu.Lock()
	delete(p.positions, symbol)
	p.mu.Unlock()
}

// Symbols lists held symbols.
func (p *Portfolio) Symbols() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.positions))
	for s := range p.positions {
		out = append(out, s)
	}
	return out
}
