package engine

import (
	"testing"

	"sector-rotation-bot/internal/types"
)

func TestBuyRecommendationBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{85, RecStrongBuy},
		{70, RecStrongBuy},
		{69.9, RecConsiderBuy},
		{50, RecConsiderBuy},
		{49.9, RecWatch},
		{30, RecWatch},
		{29.9, RecUnsuitable},
		{0, RecUnsuitable},
	}
	for _, c := range cases {
		if got := buyRecommendation(c.score); got != c.want {
			t.Errorf("buyRecommendation(%.1f): expected %q, got %q", c.score, c.want, got)
		}
	}
}

func TestSellRecommendationBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{90, RecStrongSell},
		{70, RecStrongSell},
		{55, RecConsiderSell},
		{35, RecWatch},
		{10, RecHold},
	}
	for _, c := range cases {
		if got := sellRecommendation(c.score); got != c.want {
			t.Errorf("sellRecommendation(%.1f): expected %q, got %q", c.score, c.want, got)
		}
	}
}

func TestDecideAction(t *testing.T) {
	buy := func(s float64) types.BuyAnalysis {
		return types.BuyAnalysis{SignalScore: types.SignalScore{AdjustedScore: s}}
	}
	sell := func(s float64) types.SellAnalysis {
		return types.SellAnalysis{SignalScore: types.SignalScore{AdjustedScore: s}}
	}

	if action, _ := decideAction(false, buy(75), sell(0)); action != "BUY" {
		t.Errorf("Expected BUY for a strong unheld signal, got %s", action)
	}
	if action, _ := decideAction(false, buy(20), sell(0)); action != "WAIT" {
		t.Errorf("Expected WAIT for a weak unheld signal, got %s", action)
	}
	if action, _ := decideAction(true, buy(0), sell(80)); action != "SELL" {
		t.Errorf("Expected SELL for a strong held signal, got %s", action)
	}
	if action, _ := decideAction(true, buy(0), sell(20)); action != "HOLD" {
		t.Errorf("Expected HOLD for a weak held signal, got %s", action)
	}
}

func TestTopBuyCandidates(t *testing.T) {
	results := []types.AnalysisResult{
		{Symbol: "A", Buy: types.BuyAnalysis{SignalScore: types.SignalScore{AdjustedScore: 40}}},
		{Symbol: "B", Buy: types.BuyAnalysis{SignalScore: types.SignalScore{AdjustedScore: 90}}},
		{Symbol: "C", Buy: types.BuyAnalysis{SignalScore: types.SignalScore{AdjustedScore: 60}}},
	}

	top := TopBuyCandidates(results, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(top))
	}
	if top[0].Symbol != "B" || top[1].Symbol != "C" {
		t.Errorf("Expected order B, C; got %s, %s", top[0].Symbol, top[1].Symbol)
	}

	// Input slice stays untouched.
	if results[0].Symbol != "A" {
		t.Error("Expected the input slice to be left unmodified")
	}
}

func TestRoundToTick(t *testing.T) {
	if got := roundToTick(93120, 50); got != 93100 {
		t.Errorf("Expected 93100, got %f", got)
	}
	if got := roundToTick(93120, 0); got != 93120 {
		t.Errorf("Expected passthrough without a tick, got %f", got)
	}
}
