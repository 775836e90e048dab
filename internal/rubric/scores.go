package rubric

// Sub-score tables. Every function tolerates missing data by returning the
// midpoint of its range, so a symbol with no fundamentals or no news still
// lands on a neutral grade instead of failing the run.

// trendScore rates the MA20/MA60 spread, 0-10.
func trendScore(ma20, ma60 *float64) float64 {
	if ma20 == nil || ma60 == nil || *ma60 == 0 {
		return 5.0
	}
	diffPct := (*ma20 - *ma60) / *ma60 * 100
	switch {
	case diffPct >= 5:
		return 10.0
	case diffPct >= 2:
		return 8.0
	case diffPct >= 0:
		return 6.0
	case diffPct >= -2:
		return 4.0
	case diffPct >= -5:
		return 2.0
	default:
		return 0.0
	}
}

// rsiScore rates RSI, 0-10. The 40-60 band scores highest: room to run
// without being washed out.
func rsiScore(rsi *float64) float64 {
	if rsi == nil {
		return 5.0
	}
	v := *rsi
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	switch {
	case v >= 40 && v <= 60:
		return 10.0
	case v >= 30 && v < 40:
		return 8.0
	case v > 60 && v <= 70:
		return 7.0
	case v >= 20 && v < 30:
		return 6.0
	case v > 70 && v <= 80:
		return 4.0
	case v < 20:
		return 3.0
	default:
		return 1.0
	}
}

// supportResistanceScore rates where price sits in its 52-week range, 0-10.
// Near the low is treated as opportunity, near the high as risk.
func supportResistanceScore(current, low52, high52 *float64) float64 {
	if current == nil || low52 == nil || high52 == nil {
		return 5.0
	}
	if *high52 == *low52 {
		return 5.0
	}
	position := (*current - *low52) / (*high52 - *low52)
	switch {
	case position <= 0.2:
		return 10.0
	case position <= 0.4:
		return 8.0
	case position <= 0.6:
		return 6.0
	case position <= 0.8:
		return 4.0
	default:
		return 2.0
	}
}

// macdScore rates MACD against its signal line, 0-5.
func macdScore(macd, signal *float64) float64 {
	if macd == nil || signal == nil {
		return 2.5
	}
	diff := *macd - *signal
	switch {
	case diff > 0 && *macd > 0:
		return 5.0
	case diff > 0:
		return 4.0
	case diff == 0:
		return 3.0
	case *macd > 0:
		return 2.0
	default:
		return 1.0
	}
}

// adxScore rates trend strength, 0-5.
func adxScore(adx *float64) float64 {
	if adx == nil {
		return 2.5
	}
	switch {
	case *adx >= 40:
		return 5.0
	case *adx >= 30:
		return 4.0
	case *adx >= 20:
		return 3.0
	case *adx >= 15:
		return 2.0
	default:
		return 1.0
	}
}

// netBuyStreakScore rates consecutive net-buy days at the head of the
// series, 0-10. Used for both foreign and institutional flows.
func netBuyStreakScore(netBuy []float64) float64 {
	if len(netBuy) == 0 {
		return 5.0
	}
	streak := 0
	for _, amount := range netBuy {
		if amount <= 0 {
			break
		}
		streak++
	}
	if streak > 5 {
		streak = 5
	}
	return float64(streak) * 2.0
}

// tradingValueScore rates today's traded value against its average, 0-5.
func tradingValueScore(tradingValue, avgTradingValue *float64) float64 {
	if tradingValue == nil || avgTradingValue == nil || *avgTradingValue == 0 {
		return 2.5
	}
	ratio := *tradingValue / *avgTradingValue
	switch {
	case ratio >= 2.0:
		return 5.0
	case ratio >= 1.5:
		return 4.0
	case ratio >= 1.0:
		return 3.0
	case ratio >= 0.5:
		return 2.0
	default:
		return 1.0
	}
}

// perScore rates PER against the sector average, 0-10. Negative earnings
// score zero.
func perScore(per, sectorAvgPER *float64) float64 {
	if per == nil {
		return 5.0
	}
	if *per < 0 {
		return 0.0
	}
	avg := 15.0
	if sectorAvgPER != nil && *sectorAvgPER > 0 {
		avg = *sectorAvgPER
	}
	ratio := *per / avg
	switch {
	case ratio <= 0.5:
		return 10.0
	case ratio <= 0.7:
		return 8.0
	case ratio <= 1.0:
		return 6.0
	case ratio <= 1.3:
		return 4.0
	case ratio <= 1.5:
		return 2.0
	default:
		return 0.0
	}
}

// pbrScore rates PBR against the sector average, 0-5. Negative book value
// scores zero.
func pbrScore(pbr, sectorAvgPBR *float64) float64 {
	if pbr == nil {
		return 2.5
	}
	if *pbr < 0 {
		return 0.0
	}
	avg := 1.0
	if sectorAvgPBR != nil && *sectorAvgPBR > 0 {
		avg = *sectorAvgPBR
	}
	ratio := *pbr / avg
	switch {
	case ratio <= 0.5:
		return 5.0
	case ratio <= 0.7:
		return 4.0
	case ratio <= 1.0:
		return 3.0
	case ratio <= 1.3:
		return 2.0
	default:
		return 1.0
	}
}

// roeScore rates return on equity, 0-5.
func roeScore(roe *float64) float64 {
	if roe == nil {
		return 2.5
	}
	switch {
	case *roe >= 20:
		return 5.0
	case *roe >= 15:
		return 4.0
	case *roe >= 10:
		return 3.0
	case *roe >= 5:
		return 2.0
	case *roe >= 0:
		return 1.0
	default:
		return 0.0
	}
}

// growthScore rates YoY operating profit growth, 0-10.
func growthScore(opGrowth *float64) float64 {
	if opGrowth == nil {
		return 5.0
	}
	switch {
	case *opGrowth >= 30:
		return 10.0
	case *opGrowth >= 20:
		return 8.0
	case *opGrowth >= 10:
		return 6.0
	case *opGrowth >= 0:
		return 4.0
	case *opGrowth >= -10:
		return 2.0
	default:
		return 0.0
	}
}

// debtScore rates the debt ratio, 0-5.
func debtScore(debtRatio *float64) float64 {
	if debtRatio == nil {
		return 2.5
	}
	switch {
	case *debtRatio <= 50:
		return 5.0
	case *debtRatio <= 100:
		return 4.0
	case *debtRatio <= 150:
		return 3.0
	case *debtRatio <= 200:
		return 2.0
	default:
		return 1.0
	}
}

// newsScore maps an average sentiment in [-1, 1] onto 0-10.
func newsScore(avgSentiment *float64) float64 {
	if avgSentiment == nil {
		return 5.0
	}
	score := (*avgSentiment + 1.0) * 5.0
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// sectorMomentumScore rates the sector's 5-day return, 0-5.
func sectorMomentumScore(sectorReturn5D *float64) float64 {
	if sectorReturn5D == nil {
		return 2.5
	}
	switch {
	case *sectorReturn5D >= 5:
		return 5.0
	case *sectorReturn5D >= 2:
		return 4.0
	case *sectorReturn5D >= 0:
		return 3.0
	case *sectorReturn5D >= -2:
		return 2.0
	default:
		return 1.0
	}
}

// analystScore rates upside to the analyst target price, 0-5.
func analystScore(targetPrice, currentPrice *float64) float64 {
	if targetPrice == nil || currentPrice == nil || *currentPrice == 0 {
		return 2.5
	}
	upside := (*targetPrice - *currentPrice) / *currentPrice * 100
	switch {
	case upside >= 30:
		return 5.0
	case upside >= 15:
		return 4.0
	case upside >= 0:
		return 3.0
	case upside >= -15:
		return 2.0
	default:
		return 1.0
	}
}

// volatilityScore rates ATR as a percentage of price, 0-4. Calmer is
// better.
func volatilityScore(atrPct *float64) float64 {
	if atrPct == nil {
		return 2.0
	}
	switch {
	case *atrPct <= 2:
		return 4.0
	case *atrPct <= 3:
		return 3.0
	case *atrPct <= 5:
		return 2.0
	default:
		return 1.0
	}
}

// betaScore rates beta, 0-3. Near-market beta scores highest.
func betaScore(beta *float64) float64 {
	if beta == nil {
		return 1.5
	}
	b := *beta
	switch {
	case b >= 0.8 && b <= 1.2:
		return 3.0
	case b >= 0.5 && b < 0.8:
		return 2.5
	case b > 1.2 && b <= 1.5:
		return 2.0
	case b < 0.5:
		return 1.5
	default:
		return 1.0
	}
}

// downsideRiskScore rates the max drawdown (positive percent), 0-3.
func downsideRiskScore(maxDrawdownPct *float64) float64 {
	if maxDrawdownPct == nil {
		return 1.5
	}
	switch {
	case *maxDrawdownPct <= 10:
		return 3.0
	case *maxDrawdownPct <= 20:
		return 2.0
	case *maxDrawdownPct <= 30:
		return 1.0
	default:
		return 0.0
	}
}

// sectorRankScore rates the in-sector rank percentile, 0-5.
func sectorRankScore(rank, total *int) float64 {
	if rank == nil || total == nil || *total == 0 {
		return 2.5
	}
	percentile := float64(*rank) / float64(*total)
	switch {
	case percentile <= 0.1:
		return 5.0
	case percentile <= 0.25:
		return 4.0
	case percentile <= 0.5:
		return 3.0
	case percentile <= 0.75:
		return 2.0
	default:
		return 1.0
	}
}

// alphaScore rates the 20-day excess return over the market, 0-5.
func alphaScore(stockReturn, marketReturn *float64) float64 {
	if stockReturn == nil || marketReturn == nil {
		return 2.5
	}
	alpha := *stockReturn - *marketReturn
	switch {
	case alpha >= 10:
		return 5.0
	case alpha >= 5:
		return 4.0
	case alpha >= 0:
		return 3.0
	case alpha >= -5:
		return 2.0
	default:
		return 1.0
	}
}
