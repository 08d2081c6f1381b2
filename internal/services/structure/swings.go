package structure

import (
	"sort"

	"TradeLens/internal/domain/models"
)

// FindSwings returns swing highs and lows of the window, oldest first.
// A point is a swing high iff its high is strictly greater than every other
// high within radius on both sides; neighbours past the window edge are
// clipped, so the first and last candle never qualify.
func FindSwings(candles []models.Candle, radius int) (highs, lows []models.SwingPoint) {
	hs := models.Highs(candles)
	ls := models.Lows(candles)
	for _, i := range extrema(hs, radius, func(a, b float64) bool { return a > b }) {
		highs = append(highs, models.SwingPoint{Index: i, Price: hs[i], Kind: models.SwingHigh})
	}
	for _, i := range extrema(ls, radius, func(a, b float64) bool { return a < b }) {
		lows = append(lows, models.SwingPoint{Index: i, Price: ls[i], Kind: models.SwingLow})
	}
	return highs, lows
}

func extrema(values []float64, radius int, cmp func(a, b float64) bool) []int {
	n := len(values)
	if radius < 1 || n < 3 {
		return nil
	}
	var out []int
	for i := 1; i < n-1; i++ {
		ok := true
		for j := max(0, i-radius); j <= min(n-1, i+radius); j++ {
			if j != i && !cmp(values[i], values[j]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// FindPeaks returns local maxima of values at least distance apart. Flat tops
// resolve to their middle sample; when peaks crowd each other the higher one
// is kept.
func FindPeaks(values []float64, distance int) []int {
	n := len(values)
	var peaks []int
	for i := 1; i < n-1; {
		if values[i-1] < values[i] {
			ahead := i + 1
			for ahead < n-1 && values[ahead] == values[i] {
				ahead++
			}
			if values[ahead] < values[i] {
				peaks = append(peaks, (i+ahead-1)/2)
			}
			i = ahead
			continue
		}
		i++
	}
	if distance <= 1 || len(peaks) < 2 {
		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[peaks[order[a]]] < values[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for p := len(order) - 1; p >= 0; p-- {
		j := order[p]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := peaks[:0]
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func prices(points []models.SwingPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}
