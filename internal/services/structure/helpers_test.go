package structure

import (
	"time"

	"TradeLens/internal/domain/models"
)

var t0 = time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

func bar(i int, o, h, l, c float64) models.Candle {
	return models.Candle{
		Timestamp: t0.Add(time.Duration(i) * time.Hour),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    1000,
	}
}

// zigzag builds a triangle wave with period 12 on top of a linear drift.
// Swing highs sit at phase 6 and swing lows at phase 0.
func zigzag(n int, drift float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		p := i % 12
		tri := p
		if p > 6 {
			tri = 12 - p
		}
		c := 100 + drift*float64(i) + 2*float64(tri)
		out[i] = bar(i, c, c+1, c-1, c)
	}
	return out
}

// path interpolates closes linearly through the given (index, price) knots.
func path(knots ...[2]float64) []models.Candle {
	var out []models.Candle
	for k := 1; k < len(knots); k++ {
		from, to := knots[k-1], knots[k]
		steps := int(to[0] - from[0])
		for s := 0; s < steps; s++ {
			c := from[1] + (to[1]-from[1])*float64(s)/float64(steps)
			out = append(out, bar(len(out), c, c+0.5, c-0.5, c))
		}
	}
	last := knots[len(knots)-1][1]
	out = append(out, bar(len(out), last, last+0.5, last-0.5, last))
	return out
}

func flat(i int, price float64) models.Candle {
	return bar(i, price, price+0.5, price-0.5, price)
}
