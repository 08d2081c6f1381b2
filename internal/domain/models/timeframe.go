package models

import "time"

// Timeframe is a candle resolution label.
type Timeframe string

const (
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// AnalysisTimeframes is the fixed multi-timeframe order, lowest first.
var AnalysisTimeframes = []Timeframe{TF5m, TF15m, TF30m, TF1h, TF4h, TF1d}

// Duration returns the bar length.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF5m:
		return 5 * time.Minute
	case TF15m:
		return 15 * time.Minute
	case TF30m:
		return 30 * time.Minute
	case TF1h:
		return time.Hour
	case TF4h:
		return 4 * time.Hour
	case TF1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Horizon is a forecast horizon.
type Horizon string

const (
	Horizon1h Horizon = "1h"
	Horizon1d Horizon = "1d"
	Horizon1w Horizon = "1w"
)

// Horizons lists every supported horizon, shortest first.
var Horizons = []Horizon{Horizon1h, Horizon1d, Horizon1w}

// HorizonClass groups horizons that share estimator parameters.
type HorizonClass string

const (
	ShortHorizon  HorizonClass = "short"
	MediumHorizon HorizonClass = "medium"
	LongHorizon   HorizonClass = "long"
)

// Class maps a horizon onto its parameter class. Unknown horizons are long.
func (h Horizon) Class() HorizonClass {
	switch h {
	case Horizon1h:
		return ShortHorizon
	case Horizon1d:
		return MediumHorizon
	default:
		return LongHorizon
	}
}

// Valid reports whether h is a supported horizon.
func (h Horizon) Valid() bool {
	switch h {
	case Horizon1h, Horizon1d, Horizon1w:
		return true
	}
	return false
}
