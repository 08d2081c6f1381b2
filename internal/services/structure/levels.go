package structure

import (
	"math"
	"sort"

	"TradeLens/internal/domain/models"
)

// FindSupportResistance returns the swing levels nearest to the last close.
func (d *Detector) FindSupportResistance(candles []models.Candle) []models.PriceLevel {
	n := len(candles)
	if n < 50 {
		return []models.PriceLevel{}
	}
	price := candles[n-1].Close
	highs, lows := FindSwings(candles, d.cfg.LevelRadius)

	levels := make([]models.PriceLevel, 0, 20)
	for _, h := range lastN(highs, d.cfg.MaxFeatures) {
		if h.Price > price {
			levels = append(levels, models.PriceLevel{Price: h.Price, Strength: models.Moderate, Touches: 1, LevelType: models.Resistance})
		}
	}
	for _, l := range lastN(lows, d.cfg.MaxFeatures) {
		if l.Price < price {
			levels = append(levels, models.PriceLevel{Price: l.Price, Strength: models.Moderate, Touches: 1, LevelType: models.Support})
		}
	}

	sort.SliceStable(levels, func(a, b int) bool {
		return math.Abs(levels[a].Price-price) < math.Abs(levels[b].Price-price)
	})
	return levels[:min(len(levels), d.cfg.MaxFeatures)]
}
