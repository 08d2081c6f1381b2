package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"TradeLens/internal/domain/models"
	domsvc "TradeLens/internal/domain/service"
)

// MinCandles is the shortest window that yields any indicator at all.
const MinCandles = 20

// Calculator computes the indicator bundle of a candle window with TA-Lib.
type Calculator struct{}

var _ domsvc.IndicatorCalculator = (*Calculator)(nil)

// New creates a Calculator.
func New() *Calculator { return &Calculator{} }

// Compute returns the latest value of every indicator. Fields whose warm-up
// period exceeds the window are left nil.
func (c *Calculator) Compute(candles []models.Candle) models.IndicatorBundle {
	if len(candles) < MinCandles {
		return models.IndicatorBundle{}
	}
	closes := models.Closes(candles)
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	return models.IndicatorBundle{
		MovingAverages: movingAverages(candles, closes),
		Momentum:       momentum(closes, highs, lows),
		Volatility:     volatility(closes, highs, lows),
	}
}

func movingAverages(candles []models.Candle, closes []float64) models.MovingAverages {
	n := len(closes)
	ema := func(p int) *float64 {
		return latest(n >= p, func() []float64 { return talib.Ema(closes, p) })
	}
	sma := func(p int) *float64 {
		return latest(n >= p, func() []float64 { return talib.Sma(closes, p) })
	}
	return models.MovingAverages{
		EMA9:   ema(9),
		EMA21:  ema(21),
		EMA50:  ema(50),
		EMA100: ema(100),
		EMA200: ema(200),
		SMA20:  sma(20),
		SMA50:  sma(50),
		SMA200: sma(200),
		VWAP:   vwap(candles),
	}
}

// vwap is the cumulative typical-price VWAP over the whole window.
func vwap(candles []models.Candle) *float64 {
	var pv, vol float64
	for _, c := range candles {
		tp := (c.High + c.Low + c.Close) / 3
		pv += tp * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return nil
	}
	return finite(pv / vol)
}

func momentum(closes, highs, lows []float64) models.MomentumIndicators {
	n := len(closes)
	out := models.MomentumIndicators{}

	out.RSI14 = latest(n > 14, func() []float64 { return talib.Rsi(closes, 14) })
	out.RSIState = rsiState(out.RSI14)

	if n >= 34 {
		var line, signal, hist []float64
		safe(func() { line, signal, hist = talib.Macd(closes, 12, 26, 9) })
		out.MACDLine = last(line)
		out.MACDSignal = last(signal)
		out.MACDHistogram = last(hist)
		out.MACDState = macdState(out.MACDLine, out.MACDSignal, out.MACDHistogram)
	}

	if n >= 16 {
		var k, d []float64
		safe(func() { k, d = talib.StochF(highs, lows, closes, 14, 3, talib.SMA) })
		out.StochK = last(k)
		out.StochD = last(d)
		out.StochState = stochState(out.StochK, out.StochD)
	}

	out.CCI = latest(n >= 20, func() []float64 { return talib.Cci(highs, lows, closes, 20) })
	return out
}

func volatility(closes, highs, lows []float64) models.VolatilityIndicators {
	n := len(closes)
	price := closes[n-1]
	out := models.VolatilityIndicators{}

	out.ATR14 = latest(n > 14, func() []float64 { return talib.Atr(highs, lows, closes, 14) })
	if out.ATR14 != nil && *out.ATR14 != 0 && price != 0 {
		out.ATRPercent = finite(*out.ATR14 / price * 100)
	}

	var upper, middle, lower []float64
	safe(func() { upper, middle, lower = talib.BBands(closes, 20, 2, 2, talib.SMA) })
	out.BBUpper, out.BBMiddle, out.BBLower = last(upper), last(middle), last(lower)

	if out.BBUpper != nil && out.BBLower != nil && out.BBMiddle != nil && *out.BBMiddle != 0 {
		u, l, m := *out.BBUpper, *out.BBLower, *out.BBMiddle
		out.BBWidth = finite((u - l) / m * 100)
		if u-l > 0 {
			out.BBPosition = finite((price - l) / (u - l))
		} else {
			out.BBPosition = models.Float(0.5)
		}
	}
	return out
}

func rsiState(rsi *float64) string {
	if rsi == nil {
		return ""
	}
	switch v := *rsi; {
	case v < 30:
		return "Oversold"
	case v > 70:
		return "Overbought"
	case v < 40:
		return "Weakening"
	case v > 60:
		return "Strengthening"
	default:
		return "Neutral"
	}
}

func macdState(line, signal, hist *float64) string {
	if line == nil || signal == nil {
		return ""
	}
	switch {
	case hist != nil && *hist > 0:
		if *line > 0 {
			return "Bullish Momentum"
		}
		return "Bullish Crossover"
	case hist != nil && *hist < 0:
		if *line < 0 {
			return "Bearish Momentum"
		}
		return "Bearish Crossover"
	default:
		return "Neutral"
	}
}

func stochState(k, d *float64) string {
	if k == nil {
		return ""
	}
	switch {
	case *k < 20:
		return "Oversold"
	case *k > 80:
		return "Overbought"
	case d != nil && *d != 0 && *k > *d:
		return "Bullish"
	case d != nil && *d != 0 && *k < *d:
		return "Bearish"
	default:
		return "Neutral"
	}
}

// latest runs fn when ok and returns the last finite value of its series.
func latest(ok bool, fn func() []float64) *float64 {
	if !ok {
		return nil
	}
	var series []float64
	safe(func() { series = fn() })
	return last(series)
}

// safe swallows index panics raised by TA-Lib on degenerate input.
func safe(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return finite(series[len(series)-1])
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return models.Float(v)
}
