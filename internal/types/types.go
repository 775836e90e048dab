package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrDataUnavailable marks a symbol whose price history could not be
// materialized by the provider. Batch runs record it per symbol instead of
// aborting.
var ErrDataUnavailable = errors.New("price data unavailable")

// Trend is the broad-market regime classification.
type Trend string

const (
	TrendBull     Trend = "BULL"
	TrendBear     Trend = "BEAR"
	TrendSideways Trend = "SIDEWAYS"
	TrendUnknown  Trend = "UNKNOWN"
)

// VolatilityLevel buckets realized volatility.
type VolatilityLevel string

const (
	VolLow     VolatilityLevel = "LOW"
	VolMedium  VolatilityLevel = "MEDIUM"
	VolHigh    VolatilityLevel = "HIGH"
	VolUnknown VolatilityLevel = "UNKNOWN"
)

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered lookback window of bars for one symbol.
// It is immutable once handed to the analysis core.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

func (s PriceSeries) Len() int { return len(s.Bars) }

func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Last returns the most recent bar, ok=false on an empty series.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the series invariants: high >= low >= 0, volume >= 0 and
// strictly increasing dates.
func (s PriceSeries) Validate() error {
	for i, b := range s.Bars {
		if b.Low < 0 || b.High < b.Low {
			return fmt.Errorf("bar %d: invalid high/low %.2f/%.2f", i, b.High, b.Low)
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %d: negative volume %.0f", i, b.Volume)
		}
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("bar %d: date %s not after previous", i, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// VolatilityProfile classifies a symbol's own volatility against its recent
// history. AdjustmentFactor widens or narrows dynamic trigger thresholds.
type VolatilityProfile struct {
	Level            VolatilityLevel `json:"level"`
	CurrentATR       float64         `json:"current_atr"`
	AverageATR       float64         `json:"avg_atr"`
	ATRRatio         float64         `json:"atr_ratio"`
	AdjustmentFactor float64         `json:"adjustment_factor"`
}

// ThresholdSet carries the floor/ceiling extremes of the lookback window and
// the derived knee/shoulder trigger prices. Valid is false for degenerate
// series; all other fields are then meaningless.
type ThresholdSet struct {
	Valid                bool      `json:"valid"`
	FloorPrice           float64   `json:"floor_price"`
	FloorDate            time.Time `json:"floor_date"`
	CeilingPrice         float64   `json:"ceiling_price"`
	CeilingDate          time.Time `json:"ceiling_date"`
	DynamicKneePrice     float64   `json:"dynamic_knee_price"`
	DynamicShoulderPrice float64   `json:"dynamic_shoulder_price"`
	AtKnee               bool      `json:"at_knee"`
	AtShoulder           bool      `json:"at_shoulder"`
}

// PositionMetrics locates the current price inside the floor/ceiling range.
type PositionMetrics struct {
	FromFloorPct    float64 `json:"from_floor_pct"`
	FromCeilingPct  float64 `json:"from_ceiling_pct"`
	PositionInRange float64 `json:"position_in_range"`
}

// RegimeState is the broad-index snapshot shared by every symbol analyzed
// within one cache TTL window.
type RegimeState struct {
	Trend           Trend           `json:"trend"`
	TrendDiffPct    float64         `json:"trend_diff_pct"`
	Volatility      VolatilityLevel `json:"volatility"`
	VolatilityValue float64         `json:"volatility_value"`
	ShortMA         float64         `json:"short_ma"`
	LongMA          float64         `json:"long_ma"`
	IndexClose      float64         `json:"index_close"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// Known reports whether the regime could be classified at all. Adjustment is
// a no-op on an unknown regime.
func (r RegimeState) Known() bool {
	return r.Trend == TrendBull || r.Trend == TrendBear || r.Trend == TrendSideways
}

// SignalScore is the raw and regime-adjusted outcome of one side (buy or
// sell) of the signal evaluation. Reasons are appended in a fixed evaluation
// order so identical inputs always explain themselves identically.
type SignalScore struct {
	RawScore      float64  `json:"raw_score"`
	AdjustedScore float64  `json:"adjusted_score"`
	Reasons       []string `json:"reasons"`
	RegimeApplied Trend    `json:"regime_applied"`
}

// BuyAnalysis is the buy-side evaluation for one symbol.
type BuyAnalysis struct {
	SignalScore
	RSI           float64 `json:"rsi"`
	RSIOversold   bool    `json:"rsi_oversold"`
	VolumeSurge   bool    `json:"volume_surge"`
	GoldenCross   bool    `json:"golden_cross"`
	CrossDaysAgo  int     `json:"cross_days_ago,omitempty"`
	ChaseRisk     bool    `json:"chase_risk"`
	StopLossPrice float64 `json:"stop_loss_price"`
}

// SellStrategy recommends how much of a profitable position to unwind.
type SellStrategy string

const (
	StrategyFullExit     SellStrategy = "FULL_EXIT"
	StrategyPartialHalf  SellStrategy = "PARTIAL_HALF"
	StrategyPartialThird SellStrategy = "PARTIAL_THIRD"
	StrategyHold         SellStrategy = "HOLD"
	StrategyNoPosition   SellStrategy = "NO_POSITION"
)

// SellAnalysis is the sell-side evaluation for one symbol. ProfitRate and
// StopLoss are nil when no position context was supplied.
type SellAnalysis struct {
	SignalScore
	RSI               float64        `json:"rsi"`
	RSIOverbought     bool           `json:"rsi_overbought"`
	VolumeContraction bool           `json:"volume_contraction"`
	DeadCross         bool           `json:"dead_cross"`
	CrossDaysAgo      int            `json:"cross_days_ago,omitempty"`
	ProfitRate        *float64       `json:"profit_rate,omitempty"`
	Volatility        float64        `json:"volatility"`
	Strategy          SellStrategy   `json:"strategy"`
	StopLoss          *StopLossState `json:"stop_loss,omitempty"`
}

// StopMode is the active stop-loss mode of a position.
type StopMode string

const (
	StopFixed    StopMode = "FIXED"
	StopTrailing StopMode = "TRAILING"
	StopNone     StopMode = "NONE"
)

// StopLossState is the evaluated stop policy for one open position. The
// caller owns HighestPrice across evaluations; the engine never persists it.
type StopLossState struct {
	BuyPrice          float64  `json:"buy_price"`
	HighestPrice      float64  `json:"highest_price"`
	CurrentPrice      float64  `json:"current_price"`
	Mode              StopMode `json:"mode"`
	FixedStopPrice    float64  `json:"fixed_stop_price"`
	TrailingStopPrice float64  `json:"trailing_stop_price,omitempty"`
	StopPrice         float64  `json:"stop_price"`
	Triggered         bool     `json:"triggered"`
	LossRate          float64  `json:"loss_rate"`
}

// FundamentalSnapshot holds the typed fundamentals summary consumed by the
// rubric. Nil fields score their documented neutral midpoints.
type FundamentalSnapshot struct {
	PER                   *float64 `json:"per,omitempty"`
	PBR                   *float64 `json:"pbr,omitempty"`
	ROE                   *float64 `json:"roe,omitempty"`
	OperatingProfitGrowth *float64 `json:"operating_profit_growth,omitempty"`
	DebtRatio             *float64 `json:"debt_ratio,omitempty"`
	SectorAvgPER          *float64 `json:"sector_avg_per,omitempty"`
	SectorAvgPBR          *float64 `json:"sector_avg_pbr,omitempty"`
}

// NewsArticle is one scraped headline with whatever body text the source
// exposed.
type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
	Symbol      string `json:"symbol"`
}

// NewsSentiment is the aggregated sentiment scalar for one symbol.
type NewsSentiment struct {
	Symbol       string    `json:"symbol"`
	AvgScore     float64   `json:"avg_score"` // -1.0 .. 1.0
	ArticleCount int       `json:"article_count"`
	Positive     int       `json:"positive"`
	Negative     int       `json:"negative"`
	Neutral      int       `json:"neutral"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// PositionContext is the held-position input supplied by the portfolio
// source for sell-side evaluation.
type PositionContext struct {
	BuyPrice     float64 `json:"buy_price"`
	Quantity     int     `json:"quantity"`
	HighestPrice float64 `json:"highest_price"`
}

// AnalysisResult is the full structured per-symbol output exposed to report
// and dashboard consumers.
type AnalysisResult struct {
	Symbol         string            `json:"symbol"`
	Name           string            `json:"name,omitempty"`
	CurrentPrice   float64           `json:"current_price"`
	Volatility     VolatilityProfile `json:"volatility"`
	Thresholds     ThresholdSet      `json:"thresholds"`
	Position       PositionMetrics   `json:"position"`
	Buy            BuyAnalysis       `json:"buy"`
	Sell           SellAnalysis      `json:"sell"`
	Rubric         *RubricScore      `json:"rubric,omitempty"`
	Regime         RegimeState       `json:"regime"`
	Action         string            `json:"action"` // BUY, SELL or HOLD
	Recommendation string            `json:"recommendation"`
	Warnings       []string          `json:"warnings,omitempty"`
	EvaluatedAt    time.Time         `json:"evaluated_at"`
}

// SymbolError records a symbol excluded from a batch, with the reason.
type SymbolError struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// BatchResult pairs successful per-symbol results with explicit error
// entries; no symbol is silently dropped.
type BatchResult struct {
	Results []AnalysisResult `json:"results"`
	Errors  []SymbolError    `json:"errors,omitempty"`
	Regime  RegimeState      `json:"regime"`
}
