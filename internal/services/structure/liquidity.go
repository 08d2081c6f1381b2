package structure

import (
	"math"
	"sort"

	"TradeLens/internal/domain/models"
)

// FindLiquidityZones returns the most recent equal-high and equal-low clusters.
func (d *Detector) FindLiquidityZones(candles []models.Candle) []models.LiquidityZone {
	n := len(candles)
	if n < d.cfg.LiquidityMin {
		return []models.LiquidityZone{}
	}
	last := candles[n-1]
	w := d.cfg.LiquidityWindow
	tol := d.cfg.LiquidityTol

	var zones []models.LiquidityZone
	highs := models.Highs(candles)
	for i := 0; i+w < n; i++ {
		level, touches := cluster(highs[i:i+w], tol, math.Max)
		if touches < 2 || level <= 0 {
			continue
		}
		zones = append(zones, models.LiquidityZone{
			PriceStart: level * (1 - tol),
			PriceEnd:   level * (1 + tol),
			ZoneType:   models.BuySide,
			Strength:   touchStrength(touches),
			Swept:      last.High > level,
			Index:      i,
		})
	}

	lows := models.Lows(candles)
	for i := 0; i+w < n; i++ {
		level, touches := cluster(lows[i:i+w], tol, math.Min)
		if touches < 2 || level <= 0 {
			continue
		}
		zones = append(zones, models.LiquidityZone{
			PriceStart: level * (1 - tol),
			PriceEnd:   level * (1 + tol),
			ZoneType:   models.SellSide,
			Strength:   touchStrength(touches),
			Swept:      last.Low < level,
			Index:      i,
		})
	}

	merged := mergeZones(zones)
	sort.SliceStable(merged, func(a, b int) bool { return merged[a].Index < merged[b].Index })
	return lastN(merged, d.cfg.MaxFeatures)
}

// cluster returns the window extreme and how many values sit within tol of it.
func cluster(window []float64, tol float64, pick func(a, b float64) float64) (float64, int) {
	level := window[0]
	for _, v := range window[1:] {
		level = pick(level, v)
	}
	if level == 0 {
		return 0, 0
	}
	touches := 0
	for _, v := range window {
		if math.Abs(v-level)/level < tol {
			touches++
		}
	}
	return level, touches
}

func touchStrength(touches int) models.Strength {
	if touches >= 3 {
		return models.Strong
	}
	return models.Moderate
}

// mergeZones collapses zones overlapping in price, preferring Strong ones.
func mergeZones(zones []models.LiquidityZone) []models.LiquidityZone {
	if len(zones) == 0 {
		return []models.LiquidityZone{}
	}
	sort.SliceStable(zones, func(a, b int) bool { return zones[a].PriceStart < zones[b].PriceStart })

	out := []models.LiquidityZone{zones[0]}
	for _, z := range zones[1:] {
		last := &out[len(out)-1]
		if z.PriceStart < last.PriceEnd {
			if z.Strength == models.Strong && last.Strength != models.Strong {
				*last = z
			}
			continue
		}
		out = append(out, z)
	}
	return out
}
