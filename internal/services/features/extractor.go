package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PctReturns computes simple returns C_t / C_{t-1} - 1, length len(closes)-1.
// Steps from a non-positive close count as zero.
func PctReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 {
			out[i-1] = closes[i]/closes[i-1] - 1
		}
	}
	return out
}

// Diff returns first differences, length len(values)-1.
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// ExpWeights returns n weights growing as exp(x) for x evenly spaced over
// [0, 2], normalized to sum to 1.
func ExpWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	floats.Span(w, 0, 2)
	for i := range w {
		w[i] = math.Exp(w[i])
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation, 0 with fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Skew returns the biased sample skewness m3 / m2^1.5, 0 for degenerate input.
func Skew(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	m2 := stat.Moment(2, values, nil)
	if m2 == 0 {
		return 0
	}
	return stat.Moment(3, values, nil) / math.Pow(m2, 1.5)
}

// CoefficientOfVariation returns the sample standard deviation over the mean.
func CoefficientOfVariation(values []float64) float64 {
	m := Mean(values)
	if m == 0 {
		return 0
	}
	return StdDev(values) / m
}
