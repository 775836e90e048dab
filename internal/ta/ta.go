package ta

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SMA returns the simple moving average of the last n closes.
func SMA(closes []float64, n int) float64 {
	return SMAAt(closes, n, 0)
}

// SMAAt returns the SMA of the n closes ending `back` bars before the last
// one. back=0 is the current bar, back=1 the previous. NaN when the window
// does not fit.
func SMAAt(closes []float64, n, back int) float64 {
	end := len(closes) - back
	if n <= 0 || end < n || end > len(closes) {
		return math.NaN()
	}
	return stat.Mean(closes[end-n:end], nil)
}

// RSI computes the n-period relative strength index of the last window.
// NaN when fewer than period+1 closes exist; use RSIOrNeutral for the
// degraded-data path.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// RSIOrNeutral is RSI with the documented insufficient-data fallback: a
// neutral 50 when the series is too short or the result is not finite, and
// the value clamped into [0,100].
func RSIOrNeutral(closes []float64, period int) float64 {
	v := RSI(closes, period)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 50.0
	}
	return Clamp(v, 0, 100)
}

// StdDev returns the population standard deviation of the last n values.
func StdDev(vals []float64, n int) float64 {
	if n <= 0 || len(vals) < n {
		return math.NaN()
	}
	tail := vals[len(vals)-n:]
	m := stat.Mean(tail, nil)
	s := 0.0
	for _, v := range tail {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// Returns converts closes into simple daily returns (length len-1).
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-closes[i-1])/closes[i-1])
	}
	return out
}

// ReturnStdDev is the standard deviation of daily returns over the last n
// return observations. NaN when not enough data.
func ReturnStdDev(closes []float64, n int) float64 {
	return StdDev(Returns(closes), n)
}

// TrueRanges computes the per-bar true range: max(high-low, |high-prevClose|,
// |low-prevClose|). The first bar uses high-low only. When the high/low
// channel is unusable the rolling stddev of close stands in as a range proxy.
func TrueRanges(highs, lows, closes []float64) []float64 {
	n := len(closes)
	if n == 0 {
		return nil
	}
	if !usableChannel(highs, lows, n) {
		return closeRangeProxy(closes)
	}
	trs := make([]float64, n)
	trs[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}
	return trs
}

// ATRSeries is the rolling mean of true range. Windows shorter than period
// average over whatever bars exist rather than emitting NaN, so short series
// still yield a best-effort value per bar.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	trs := TrueRanges(highs, lows, closes)
	if len(trs) == 0 || period <= 0 {
		return nil
	}
	out := make([]float64, len(trs))
	sum := 0.0
	for i, tr := range trs {
		sum += tr
		if i >= period {
			sum -= trs[i-period]
			out[i] = sum / float64(period)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// ATR returns the current (last-bar) average true range, best-effort over
// available bars. Zero for an empty series.
func ATR(highs, lows, closes []float64, period int) float64 {
	s := ATRSeries(highs, lows, closes, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// CrossAbove reports whether the short MA crossed above the long MA within
// the last `within` bars, and how many bars ago. A cross at bar -i means
// shortMA < longMA at bar -(i+1) and shortMA > longMA at bar -i.
func CrossAbove(closes []float64, short, long, within int) (bool, int) {
	return cross(closes, short, long, within, true)
}

// CrossBelow is the dead-cross counterpart of CrossAbove.
func CrossBelow(closes []float64, short, long, within int) (bool, int) {
	return cross(closes, short, long, within, false)
}

func cross(closes []float64, short, long, within int, above bool) (bool, int) {
	if len(closes) < long+1 {
		return false, 0
	}
	for i := 0; i < within; i++ {
		sPrev := SMAAt(closes, short, i+1)
		lPrev := SMAAt(closes, long, i+1)
		sCurr := SMAAt(closes, short, i)
		lCurr := SMAAt(closes, long, i)
		if math.IsNaN(sPrev) || math.IsNaN(lPrev) || math.IsNaN(sCurr) || math.IsNaN(lCurr) {
			continue
		}
		if above && sPrev < lPrev && sCurr > lCurr {
			return true, i + 1
		}
		if !above && sPrev > lPrev && sCurr < lCurr {
			return true, i + 1
		}
	}
	return false, 0
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeDivide guards every ratio in the scoring path: division by zero, NaN
// or infinite results collapse to the caller's default.
func SafeDivide(num, den, def float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsNaN(num) {
		return def
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func usableChannel(highs, lows []float64, n int) bool {
	if len(highs) != n || len(lows) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if highs[i] > 0 && lows[i] > 0 {
			return true
		}
	}
	return false
}

// closeRangeProxy substitutes the rolling stddev of close for true range
// when no high/low channel exists.
func closeRangeProxy(closes []float64) []float64 {
	out := make([]float64, len(closes))
	const win = 5
	for i := range closes {
		lo := i - win + 1
		if lo < 0 {
			lo = 0
		}
		seg := closes[lo : i+1]
		if len(seg) < 2 {
			out[i] = 0
			continue
		}
		m := stat.Mean(seg, nil)
		s := 0.0
		for _, v := range seg {
			d := v - m
			s += d * d
		}
		out[i] = math.Sqrt(s / float64(len(seg)))
	}
	return out
}
