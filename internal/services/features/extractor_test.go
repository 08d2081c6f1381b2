package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPctReturns(t *testing.T) {
	t.Parallel()
	r := PctReturns([]float64{100, 110, 99, 0, 50})
	require.Len(t, r, 4)
	assert.InDelta(t, 0.1, r[0], 1e-12)
	assert.InDelta(t, -0.1, r[1], 1e-12)
	assert.InDelta(t, -1, r[2], 1e-12)
	assert.Equal(t, 0.0, r[3])
	assert.Nil(t, PctReturns([]float64{1}))
}

func TestDiff(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []float64{1, 2, -4}, Diff([]float64{1, 2, 4, 0}))
	assert.Nil(t, Diff(nil))
}

func TestExpWeights(t *testing.T) {
	t.Parallel()
	w := ExpWeights(5)
	require.Len(t, w, 5)

	var sum float64
	for i, v := range w {
		sum += v
		if i > 0 {
			assert.Greater(t, v, w[i-1])
		}
	}
	assert.InDelta(t, 1, sum, 1e-12)
	assert.InDelta(t, math.Exp(2), w[4]/w[0], 1e-9)

	assert.Equal(t, []float64{1}, ExpWeights(1))
	assert.Nil(t, ExpWeights(0))
}

func TestMoments(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.Equal(t, 0.0, StdDev([]float64{3}))
	assert.InDelta(t, math.Sqrt(5.0/3.0), StdDev([]float64{1, 2, 3, 4}), 1e-12)
}

func TestSkew(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, Skew([]float64{1, 2}))
	assert.Equal(t, 0.0, Skew([]float64{2, 2, 2}))
	assert.InDelta(t, 0, Skew([]float64{1, 2, 3}), 1e-12)
	// mean 1, m2 = 3, m3 = 6
	assert.InDelta(t, 6.0/math.Pow(3, 1.5), Skew([]float64{0, 0, 0, 4}), 1e-12)
	assert.Greater(t, Skew([]float64{1, 1, 1, 10}), 0.0)
}

func TestCoefficientOfVariation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.InDelta(t, math.Sqrt(5.0/3.0)/2.5, CoefficientOfVariation([]float64{1, 2, 3, 4}), 1e-12)
}
