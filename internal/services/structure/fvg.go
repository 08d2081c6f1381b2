package structure

import "TradeLens/internal/domain/models"

// FindFairValueGaps returns the most recent unfilled 3-candle imbalances.
func (d *Detector) FindFairValueGaps(candles []models.Candle) []models.FairValueGap {
	n := len(candles)
	if n < 5 {
		return []models.FairValueGap{}
	}
	price := candles[n-1].Close

	unfilled := make([]models.FairValueGap, 0)
	for i := 1; i < n-1; i++ {
		prev, next := candles[i-1], candles[i+1]

		if next.Low > prev.High {
			gap := newGap(next.Low, prev.High, models.BullishGap, price)
			if !gap.Filled {
				unfilled = append(unfilled, gap)
			}
		}
		if next.High < prev.Low {
			gap := newGap(prev.Low, next.High, models.BearishGap, price)
			if !gap.Filled {
				unfilled = append(unfilled, gap)
			}
		}
	}
	return lastN(unfilled, d.cfg.MaxFeatures)
}

func newGap(high, low float64, kind models.GapType, price float64) models.FairValueGap {
	pct := FillPercentage(high, low, kind, price)
	return models.FairValueGap{
		High:           high,
		Low:            low,
		GapType:        kind,
		Filled:         pct > 50,
		FillPercentage: pct,
	}
}

// FillPercentage measures how far price has retraced into a gap, in [0,100].
// Bullish gaps fill from the top down, bearish gaps from the bottom up.
func FillPercentage(high, low float64, kind models.GapType, price float64) float64 {
	size := high - low
	if size <= 0 {
		return 0
	}
	var pct float64
	if kind == models.BullishGap {
		pct = (high - price) / size * 100
	} else {
		pct = (price - low) / size * 100
	}
	return clamp(pct, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
