package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"sector-rotation-bot/internal/market"
	"sector-rotation-bot/internal/store"
	"sector-rotation-bot/internal/types"
)

type fakePrices struct {
	failing map[string]bool
}

func (f *fakePrices) History(ctx context.Context, symbol string, bars int) (types.PriceSeries, error) {
	if f.failing[symbol] {
		return types.PriceSeries{}, errors.New("feed down")
	}
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	n := 80
	out := make([]types.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 70000 + float64(i)*100
		out[i] = types.PriceBar{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 500, Low: c - 500, Close: c, Volume: 100000,
		}
	}
	return types.PriceSeries{Symbol: symbol, Bars: out}, nil
}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Universe.Symbols = []string{"005930", "000660"}
	cfg.Universe.Names = map[string]string{"005930": "Samsung Electronics"}
	cfg.Analysis.HistoryBars = 80
	cfg.Analysis.Concurrency = 4
	cfg.Analysis.UseDynamicBands = true
	return cfg
}

func newTestAnalyzer(t *testing.T, prices *fakePrices, portfolio *Portfolio) *Analyzer {
	t.Helper()
	deps := Deps{
		Prices:    prices,
		Portfolio: portfolio,
		Regime:    market.NewClassifier(prices, market.ClassifierConfig{IndexSymbol: "KOSPI"}),
	}
	a, err := New(testConfig(), deps)
	if err != nil {
		t.Fatalf("Expected analyzer to build, got %v", err)
	}
	return a
}

func TestAnalyzeSymbol(t *testing.T) {
	a := newTestAnalyzer(t, &fakePrices{}, nil)

	res, err := a.AnalyzeSymbol(context.Background(), "005930", types.RegimeState{Trend: types.TrendSideways})
	if err != nil {
		t.Fatalf("Expected analysis to succeed, got %v", err)
	}

	if res.Name != "Samsung Electronics" {
		t.Errorf("Expected configured name, got %q", res.Name)
	}
	if res.CurrentPrice != 70000+79*100 {
		t.Errorf("Expected last close as current price, got %f", res.CurrentPrice)
	}
	if !res.Thresholds.Valid {
		t.Error("Expected valid thresholds from 80 bars")
	}
	if res.Rubric == nil {
		t.Fatal("Expected a rubric score")
	}
	if res.Rubric.Total < 0 || res.Rubric.Total > 100 {
		t.Errorf("Expected rubric total in [0,100], got %f", res.Rubric.Total)
	}
	if res.Sell.StopLoss != nil {
		t.Error("Expected no stop state without a tracked position")
	}
	if res.Action == "" || res.Recommendation == "" {
		t.Error("Expected an action and recommendation to be set")
	}
}

func TestAnalyzeSymbolProviderError(t *testing.T) {
	a := newTestAnalyzer(t, &fakePrices{failing: map[string]bool{"005930": true}}, nil)

	_, err := a.AnalyzeSymbol(context.Background(), "005930", types.RegimeState{})
	if err == nil {
		t.Fatal("Expected an error when the price provider fails")
	}
}

func TestAnalyzeBatchCollectsErrors(t *testing.T) {
	prices := &fakePrices{failing: map[string]bool{"000660": true}}
	a := newTestAnalyzer(t, prices, nil)

	batch := a.AnalyzeBatch(context.Background(), []string{"005930", "000660"})

	if len(batch.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(batch.Results))
	}
	if batch.Results[0].Symbol != "005930" {
		t.Errorf("Expected the healthy symbol to survive, got %s", batch.Results[0].Symbol)
	}
	if len(batch.Errors) != 1 || batch.Errors[0].Symbol != "000660" {
		t.Fatalf("Expected an error record for 000660, got %v", batch.Errors)
	}
}

func TestAnalyzeBatchSharesOneRegimeSnapshot(t *testing.T) {
	a := newTestAnalyzer(t, &fakePrices{}, nil)

	batch := a.AnalyzeBatch(context.Background(), []string{"005930", "000660"})

	if len(batch.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(batch.Results))
	}
	for _, r := range batch.Results {
		if r.Regime.ComputedAt != batch.Regime.ComputedAt {
			t.Errorf("Expected %s to carry the batch regime snapshot", r.Symbol)
		}
	}
}

func TestAnalyzeBatchDeterministicOrder(t *testing.T) {
	a := newTestAnalyzer(t, &fakePrices{}, nil)
	symbols := []string{"C", "A", "B"}

	batch := a.AnalyzeBatch(context.Background(), symbols)
	if len(batch.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(batch.Results))
	}
	for i, r := range batch.Results {
		if r.Symbol != symbols[i] {
			t.Errorf("Expected input order preserved at %d: want %s, got %s", i, symbols[i], r.Symbol)
		}
	}
}

func TestAnalyzeSymbolHeldPositionSellPath(t *testing.T) {
	portfolio := NewPortfolio()
	portfolio.Set("005930", types.PositionContext{BuyPrice: 90000, Quantity: 10, HighestPrice: 90000})
	a := newTestAnalyzer(t, &fakePrices{}, portfolio)

	res, err := a.AnalyzeSymbol(context.Background(), "005930", types.RegimeState{Trend: types.TrendSideways})
	if err != nil {
		t.Fatalf("Expected analysis to succeed, got %v", err)
	}

	if res.Sell.ProfitRate == nil {
		t.Fatal("Expected a profit rate for the held symbol")
	}
	if res.Sell.StopLoss == nil {
		t.Fatal("Expected a stop-loss state for the held symbol")
	}
	if res.Action != "SELL" && res.Action != "HOLD" {
		t.Errorf("Expected a sell-side action for a held symbol, got %s", res.Action)
	}
}

func TestNewRequiresProviders(t *testing.T) {
	if _, err := New(testConfig(), Deps{}); err == nil {
		t.Error("Expected an error without a price provider")
	}

	prices := &fakePrices{}
	if _, err := New(testConfig(), Deps{Prices: prices}); err == nil {
		t.Error("Expected an error without a regime classifier")
	}
}
