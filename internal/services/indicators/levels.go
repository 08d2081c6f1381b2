package indicators

import (
	"gonum.org/v1/gonum/floats"

	"TradeLens/internal/domain/models"
)

const DefaultFibLookback = 100

// FibonacciLevels measures retracements over the last lookback candles.
// It returns false for an empty window.
func FibonacciLevels(candles []models.Candle, lookback int) (models.FibonacciLevels, bool) {
	if lookback <= 0 {
		lookback = DefaultFibLookback
	}
	recent := models.Tail(candles, lookback)
	if len(recent) == 0 {
		return models.FibonacciLevels{}, false
	}
	high := floats.Max(models.Highs(recent))
	low := floats.Min(models.Lows(recent))
	diff := high - low

	return models.FibonacciLevels{
		High:   high,
		Low:    low,
		L236:   high - diff*0.236,
		L382:   high - diff*0.382,
		L500:   high - diff*0.5,
		L618:   high - diff*0.618,
		L786:   high - diff*0.786,
		L1000:  low,
		Ext127: high + diff*0.272,
		Ext162: high + diff*0.618,
	}, true
}

const (
	PerfectBullish   = "Perfect Bullish Alignment"
	PerfectBearish   = "Perfect Bearish Alignment"
	AboveEMA200      = "Bullish (Above 200 EMA)"
	BelowEMA200      = "Bearish (Below 200 EMA)"
	InsufficientEMAs = "Insufficient data"
)

// EMAAlignment describes how the 9/21/50/200 EMAs are stacked.
func EMAAlignment(ma models.MovingAverages) string {
	if ma.EMA9 == nil || ma.EMA21 == nil || ma.EMA50 == nil || ma.EMA200 == nil {
		return InsufficientEMAs
	}
	e9, e21, e50, e200 := *ma.EMA9, *ma.EMA21, *ma.EMA50, *ma.EMA200
	switch {
	case e9 > e21 && e21 > e50 && e50 > e200:
		return PerfectBullish
	case e9 < e21 && e21 < e50 && e50 < e200:
		return PerfectBearish
	case e50 > e200:
		return AboveEMA200
	default:
		return BelowEMA200
	}
}
