// Package rubric turns the per-symbol technicals, flow data, fundamentals
// and market context into a weighted 0-100 investment score with a grade.
// Two weight tables exist: v1 with four categories and v2 with six.
package rubric

import (
	"fmt"
	"math"
	"strings"

	"sector-rotation-bot/internal/types"
)

// VersionV1 uses four categories: technical 30, supply 25, fundamental 25,
// market 20. VersionV2 adds risk and relative strength: 25/20/20/15/10/10.
const (
	VersionV1 = "v1"
	VersionV2 = "v2"
)

var weightsV1 = map[types.Category]int{
	types.CategoryTechnical:   30,
	types.CategorySupply:      25,
	types.CategoryFundamental: 25,
	types.CategoryMarket:      20,
}

var weightsV2 = map[types.Category]int{
	types.CategoryTechnical:        25,
	types.CategorySupply:           20,
	types.CategoryFundamental:      20,
	types.CategoryMarket:           15,
	types.CategoryRisk:             10,
	types.CategoryRelativeStrength: 10,
}

// Inputs gathers everything a rubric evaluation can consume. Pointer and
// slice fields are optional; missing data degrades to neutral sub-scores.
type Inputs struct {
	Symbol string
	Name   string

	// technical
	MA20, MA60   *float64
	RSI          *float64
	CurrentPrice *float64
	Low52W       *float64
	High52W      *float64
	MACD         *float64
	MACDSignal   *float64
	ADX          *float64

	// supply: most recent day first
	ForeignNetBuy     []float64
	InstitutionNetBuy []float64
	TradingValue      *float64
	AvgTradingValue   *float64

	Fundamentals *types.FundamentalSnapshot

	// market environment
	NewsAvgSentiment *float64
	SectorReturn5D   *float64
	TargetPrice      *float64

	// risk (v2 only)
	ATRPct         *float64
	Beta           *float64
	MaxDrawdownPct *float64

	// relative strength (v2 only)
	SectorRank      *int
	SectorTotal     *int
	StockReturn20D  *float64
	MarketReturn20D *float64
}

// Engine evaluates symbols against one weight table.
type Engine struct {
	version string
	weights map[types.Category]int
}

// NewEngine creates a rubric engine for "v1" or "v2" (case-insensitive).
// The weight table is checked to sum to 100.
func NewEngine(version string) (*Engine, error) {
	var weights map[types.Category]int
	switch strings.ToLower(version) {
	case VersionV1:
		version = VersionV1
		weights = weightsV1
	case VersionV2, "":
		version = VersionV2
		weights = weightsV2
	default:
		return nil, fmt.Errorf("unknown rubric version %q", version)
	}
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if sum != 100 {
		return nil, fmt.Errorf("rubric %s weights sum to %d, want 100", version, sum)
	}
	return &Engine{version: version, weights: weights}, nil
}

// Version returns the active weight-table version.
func (e *Engine) Version() string { return e.version }

// Score evaluates one symbol. It never fails: absent inputs collapse to
// category midpoints and the result lands in the Hold band.
func (e *Engine) Score(in Inputs) types.RubricScore {
	categories := map[types.Category]types.CategoryScore{
		types.CategoryTechnical:   e.technical(in),
		types.CategorySupply:      e.supply(in),
		types.CategoryFundamental: e.fundamental(in),
		types.CategoryMarket:      e.market(in),
	}
	if e.version == VersionV2 {
		categories[types.CategoryRisk] = e.risk(in)
		categories[types.CategoryRelativeStrength] = e.relativeStrength(in)
	}

	total := 0.0
	for _, cs := range categories {
		total += cs.Weighted
	}
	total = round1(total)

	return types.RubricScore{
		Symbol:     in.Symbol,
		Name:       in.Name,
		Version:    e.version,
		Categories: categories,
		Total:      total,
		Grade:      GradeForScore(total),
	}
}

// GradeForScore maps a 0-100 total onto its investment grade band.
func GradeForScore(total float64) types.Grade {
	switch {
	case total >= 80:
		return types.GradeStrongBuy
	case total >= 60:
		return types.GradeBuy
	case total >= 40:
		return types.GradeHold
	case total >= 20:
		return types.GradeSell
	default:
		return types.GradeStrongSell
	}
}

func (e *Engine) technical(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategoryTechnical]
	var normalized float64
	var details map[string]float64

	if e.version == VersionV2 {
		// five indicators rescaled onto a 6+6+6+4+3 = 25 point base
		trend := trendScore(in.MA20, in.MA60) / 10 * 6
		rsi := rsiScore(in.RSI) / 10 * 6
		sr := supportResistanceScore(in.CurrentPrice, in.Low52W, in.High52W) / 10 * 6
		macd := macdScore(in.MACD, in.MACDSignal) / 5 * 4
		adx := adxScore(in.ADX) / 5 * 3
		normalized = (trend + rsi + sr + macd + adx) / 25 * 100
		details = map[string]float64{
			"trend":              round2(trend),
			"rsi":                round2(rsi),
			"support_resistance": round2(sr),
			"macd":               round2(macd),
			"adx":                round2(adx),
		}
	} else {
		trend := trendScore(in.MA20, in.MA60)
		rsi := rsiScore(in.RSI)
		sr := supportResistanceScore(in.CurrentPrice, in.Low52W, in.High52W)
		normalized = (trend + rsi + sr) / 30 * 100
		details = map[string]float64{
			"trend":              trend,
			"rsi":                rsi,
			"support_resistance": sr,
		}
	}
	return e.category(types.CategoryTechnical, normalized, weight, details)
}

func (e *Engine) supply(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategorySupply]
	foreign := netBuyStreakScore(in.ForeignNetBuy)
	institution := netBuyStreakScore(in.InstitutionNetBuy)
	tv := tradingValueScore(in.TradingValue, in.AvgTradingValue)
	normalized := (foreign + institution + tv) / 25 * 100
	return e.category(types.CategorySupply, normalized, weight, map[string]float64{
		"foreign":       foreign,
		"institution":   institution,
		"trading_value": tv,
	})
}

func (e *Engine) fundamental(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategoryFundamental]
	var per, sectorPER, opGrowth, debt, pbr, sectorPBR, roe *float64
	if f := in.Fundamentals; f != nil {
		per, sectorPER = f.PER, f.SectorAvgPER
		opGrowth, debt = f.OperatingProfitGrowth, f.DebtRatio
		pbr, sectorPBR, roe = f.PBR, f.SectorAvgPBR, f.ROE
	}

	var normalized float64
	var details map[string]float64
	if e.version == VersionV2 {
		// 4+4+4+5+3 = 20 point base
		perV := perScore(per, sectorPER) / 10 * 4
		pbrV := pbrScore(pbr, sectorPBR) / 5 * 4
		roeV := roeScore(roe) / 5 * 4
		growthV := growthScore(opGrowth) / 10 * 5
		debtV := debtScore(debt) / 5 * 3
		normalized = (perV + pbrV + roeV + growthV + debtV) / 20 * 100
		details = map[string]float64{
			"per":    round2(perV),
			"pbr":    round2(pbrV),
			"roe":    round2(roeV),
			"growth": round2(growthV),
			"debt":   round2(debtV),
		}
	} else {
		perV := perScore(per, sectorPER)
		growthV := growthScore(opGrowth)
		debtV := debtScore(debt)
		normalized = (perV + growthV + debtV) / 25 * 100
		details = map[string]float64{
			"per":    perV,
			"growth": growthV,
			"debt":   debtV,
		}
	}
	return e.category(types.CategoryFundamental, normalized, weight, details)
}

func (e *Engine) market(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategoryMarket]
	news := newsScore(in.NewsAvgSentiment)
	sector := sectorMomentumScore(in.SectorReturn5D)
	analyst := analystScore(in.TargetPrice, in.CurrentPrice)
	normalized := (news + sector + analyst) / 20 * 100
	return e.category(types.CategoryMarket, normalized, weight, map[string]float64{
		"news":            news,
		"sector_momentum": sector,
		"analyst":         analyst,
	})
}

func (e *Engine) risk(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategoryRisk]
	vol := volatilityScore(in.ATRPct)
	beta := betaScore(in.Beta)
	downside := downsideRiskScore(in.MaxDrawdownPct)
	normalized := (vol + beta + downside) / 10 * 100
	return e.category(types.CategoryRisk, normalized, weight, map[string]float64{
		"volatility":    vol,
		"beta":          beta,
		"downside_risk": downside,
	})
}

func (e *Engine) relativeStrength(in Inputs) types.CategoryScore {
	weight := e.weights[types.CategoryRelativeStrength]
	rank := sectorRankScore(in.SectorRank, in.SectorTotal)
	alpha := alphaScore(in.StockReturn20D, in.MarketReturn20D)
	normalized := (rank + alpha) / 10 * 100
	return e.category(types.CategoryRelativeStrength, normalized, weight, map[string]float64{
		"sector_rank": rank,
		"alpha":       alpha,
	})
}

func (e *Engine) category(name types.Category, normalized float64, weight int, details map[string]float64) types.CategoryScore {
	return types.CategoryScore{
		Name:     name,
		Score:    round1(normalized),
		Weight:   weight,
		Weighted: round1(normalized / 100 * float64(weight)),
		Details:  details,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
