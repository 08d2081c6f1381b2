package structure

import (
	"TradeLens/internal/domain/models"
	domsvc "TradeLens/internal/domain/service"
)

// Detector implements swing structure and smart-money feature extraction.
// All methods are pure functions of their input window.
type Detector struct {
	cfg *Config
}

var _ domsvc.StructureDetector = (*Detector)(nil)

// New creates a Detector.
func New(opts ...Option) *Detector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Detector{cfg: cfg}
}

// AnalyzeStructure classifies swings and the trend of the window.
func (d *Detector) AnalyzeStructure(candles []models.Candle) models.MarketStructure {
	if len(candles) < d.cfg.MinCandles {
		return models.RangingStructure()
	}

	highPts, lowPts := FindSwings(candles, d.cfg.SwingRadius)
	if len(highPts) < 2 || len(lowPts) < 2 {
		ms := models.RangingStructure()
		ms.Trend = monotonicTrend(candles)
		return ms
	}
	highs, lows := prices(highPts), prices(lowPts)

	hh, lh := classify(highs)
	hl, ll := classify(lows)

	lastHigh := highs[len(highs)-1]
	lastLow := lows[len(lows)-1]

	return models.MarketStructure{
		Trend:          determineTrend(len(hh)+len(hl), len(lh)+len(ll)),
		HigherHighs:    lastN(hh, d.cfg.MaxClassified),
		HigherLows:     lastN(hl, d.cfg.MaxClassified),
		LowerHighs:     lastN(lh, d.cfg.MaxClassified),
		LowerLows:      lastN(ll, d.cfg.MaxClassified),
		LastSwingHigh:  &lastHigh,
		LastSwingLow:   &lastLow,
		StructureBreak: d.structureBreak(candles, lastHigh, lastLow),
	}
}

// classify splits swings into those above and those not above their predecessor.
func classify(swings []float64) (higher, lower []float64) {
	higher, lower = []float64{}, []float64{}
	for i := 1; i < len(swings); i++ {
		if swings[i] > swings[i-1] {
			higher = append(higher, swings[i])
		} else {
			lower = append(lower, swings[i])
		}
	}
	return higher, lower
}

func determineTrend(bull, bear int) models.TrendState {
	b, s := float64(bull), float64(bear)
	switch {
	case b > s*1.5:
		return models.Uptrend
	case s > b*1.5:
		return models.Downtrend
	case abs(bull-bear) <= 2:
		return models.Ranging
	default:
		return models.Transition
	}
}

// monotonicTrend resolves windows without enough interior swings: a series
// whose highs and lows both rise (fall) on every bar is a clean trend.
func monotonicTrend(candles []models.Candle) models.TrendState {
	up, down := true, true
	for i := 1; i < len(candles); i++ {
		prev, cur := candles[i-1], candles[i]
		if !(cur.High > prev.High && cur.Low > prev.Low) {
			up = false
		}
		if !(cur.High < prev.High && cur.Low < prev.Low) {
			down = false
		}
	}
	switch {
	case up:
		return models.Uptrend
	case down:
		return models.Downtrend
	default:
		return models.Ranging
	}
}

func (d *Detector) structureBreak(candles []models.Candle, lastHigh, lastLow float64) string {
	if len(candles) < 10 {
		return ""
	}
	recent := models.Tail(candles, d.cfg.BreakLookback)
	for _, c := range recent {
		if c.Close > lastHigh {
			return models.BOSBullish
		}
	}
	for _, c := range recent {
		if c.Close < lastLow {
			return models.BOSBearish
		}
	}
	return ""
}

func lastN[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
