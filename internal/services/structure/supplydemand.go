package structure

import "TradeLens/internal/domain/models"

// FindSupplyDemandZones returns the most recent fresh zones left behind by
// impulsive candles.
func (d *Detector) FindSupplyDemandZones(candles []models.Candle) []models.SupplyDemandZone {
	n := len(candles)
	if n < d.cfg.SupplyDemandMin {
		return []models.SupplyDemandZone{}
	}
	price := candles[n-1].Close

	var total float64
	for _, c := range candles {
		total += c.Body()
	}
	avgBody := total / float64(n)

	fresh := make([]models.SupplyDemandZone, 0)
	for i := 1; i < n-2; i++ {
		c, prev := candles[i], candles[i-1]
		body := c.Body()
		if body <= avgBody*d.cfg.ImpulseMultiplier {
			continue
		}
		strength := models.Moderate
		if body > avgBody*d.cfg.StrongMultiplier {
			strength = models.Strong
		}

		switch {
		case c.Bullish():
			low := min(prev.Low, c.Low)
			high := c.Open
			if high >= price || !untouchedAbove(candles[i+1:], low) {
				continue
			}
			fresh = append(fresh, models.SupplyDemandZone{
				PriceHigh: high,
				PriceLow:  low,
				ZoneType:  models.DemandZone,
				Strength:  strength,
				Fresh:     true,
			})
		case c.Bearish():
			high := max(prev.High, c.High)
			low := c.Open
			if low <= price || !untouchedBelow(candles[i+1:], high) {
				continue
			}
			fresh = append(fresh, models.SupplyDemandZone{
				PriceHigh: high,
				PriceLow:  low,
				ZoneType:  models.SupplyZone,
				Strength:  strength,
				Fresh:     true,
			})
		}
	}
	return lastN(fresh, d.cfg.MaxFeatures)
}

func untouchedAbove(candles []models.Candle, level float64) bool {
	for _, c := range candles {
		if c.Low <= level {
			return false
		}
	}
	return true
}

func untouchedBelow(candles []models.Candle, level float64) bool {
	for _, c := range candles {
		if c.High >= level {
			return false
		}
	}
	return true
}
