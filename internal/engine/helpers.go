package engine

import (
	"math"
	"sort"

	"sector-rotation-bot/internal/types"
)

func roundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Round(price/tick) * tick
}

// Recommendation labels. Buy and sell sides share the score bands but
// carry different wording.
const (
	RecStrongBuy    = "STRONG BUY"
	RecConsiderBuy  = "CONSIDER BUY"
	RecWatch        = "WATCH"
	RecUnsuitable   = "NOT SUITABLE"
	RecStrongSell   = "STRONG SELL"
	RecConsiderSell = "CONSIDER SELL"
	RecHold         = "HOLD"
)

const (
	strongBand   = 70.0
	considerBand = 50.0
	watchBand    = 30.0
)

// buyRecommendation maps an adjusted buy score to its label.
func buyRecommendation(score float64) string {
	switch {
	case score >= strongBand:
		return RecStrongBuy
	case score >= considerBand:
		return RecConsiderBuy
	case score >= watchBand:
		return RecWatch
	default:
		return RecUnsuitable
	}
}

// sellRecommendation maps an adjusted sell score to its label.
func sellRecommendation(score float64) string {
	switch {
	case score >= strongBand:
		return RecStrongSell
	case score >= considerBand:
		return RecConsiderSell
	case score >= watchBand:
		return RecWatch
	default:
		return RecHold
	}
}

// decideAction picks the headline action for a result. Held symbols are
// judged by the sell side, watched symbols by the buy side.
func decideAction(held bool, buy types.BuyAnalysis, sell types.SellAnalysis) (action, recommendation string) {
	if held {
		rec := sellRecommendation(sell.AdjustedScore)
		switch rec {
		case RecStrongSell, RecConsiderSell:
			return "SELL", rec
		default:
			return "HOLD", rec
		}
	}
	rec := buyRecommendation(buy.AdjustedScore)
	switch rec {
	case RecStrongBuy, RecConsiderBuy:
		return "BUY", rec
	default:
		return "WAIT", rec
	}
}

// TopBuyCandidates returns at most n results ordered by adjusted buy score,
// highest first. Input order breaks ties.
func TopBuyCandidates(results []types.AnalysisResult, n int) []types.AnalysisResult {
	return topByScore(results, n, func(r types.AnalysisResult) float64 { return r.Buy.AdjustedScore })
}

// TopSellCandidates returns at most n results ordered by adjusted sell
// score, highest first.
func TopSellCandidates(results []types.AnalysisResult, n int) []types.AnalysisResult {
	return topByScore(results, n, func(r types.AnalysisResult) float64 { return r.Sell.AdjustedScore })
}

func topByScore(results []types.AnalysisResult, n int, score func(types.AnalysisResult) float64) []types.AnalysisResult {
	out := make([]types.AnalysisResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return score(out[i]) > score(out[j]) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
