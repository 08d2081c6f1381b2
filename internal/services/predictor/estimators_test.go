package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
)

func TestWeightedMomentum(t *testing.T) {
	t.Parallel()

	in := input(models.Horizon1h, 100)
	_, ok := weightedMomentum(in)
	assert.False(t, ok, "abstains without candles")

	in.Candles = line(30, 100, 0)
	est, ok := weightedMomentum(in)
	require.True(t, ok)
	assert.InDelta(t, 100, est.target, 1e-9)
	assert.Equal(t, 0.0, est.penalty)
	assert.InDelta(t, 0.8, in.cfg.Methods[MethodMomentum].confidence(in.Class, est.penalty), 1e-12)

	in.Candles = line(30, 100, 1)
	est, ok = weightedMomentum(in)
	require.True(t, ok)
	assert.Greater(t, est.target, 100.0)
}

func TestRegressionProjection(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 159)
	in.Candles = line(60, 100, 1)

	est, ok := regressionProjection(in)
	require.True(t, ok)
	// line 100 + i projected to x = 60.3, blended 40/60 with price
	assert.InDelta(t, 0.4*160.3+0.6*159, est.target, 1e-6)
	assert.InDelta(t, 1, est.penalty, 1e-9)
	assert.InDelta(t, 0.85, in.cfg.Methods[MethodRegression].confidence(in.Class, est.penalty), 1e-9)

	in.Candles = line(60, 100, 0)
	est, ok = regressionProjection(in)
	require.True(t, ok)
	assert.InDelta(t, 0.3, in.cfg.Methods[MethodRegression].confidence(in.Class, est.penalty), 1e-9)
}

func TestSRMagnet(t *testing.T) {
	t.Parallel()
	bullish := []models.TimeframeBias{{Bias: models.Bullish}, {Bias: models.Bullish}, {Bias: models.Bearish}}
	bearish := []models.TimeframeBias{{Bias: models.Bearish}}

	t.Run("bullish targets resistance", func(t *testing.T) {
		in := input(models.Horizon1h, 50000)
		in.Biases = bullish
		in.KeyLevels.ImmediateResistance = models.Float(51000)
		est, ok := srMagnet(in)
		require.True(t, ok)
		assert.InDelta(t, 50700, est.target, 1e-9)
		assert.InDelta(t, 0.76, in.cfg.Methods[MethodSRMagnet].confidence(in.Class, est.penalty), 1e-9)
	})

	t.Run("bullish without resistance abstains", func(t *testing.T) {
		in := input(models.Horizon1h, 50000)
		in.Biases = bullish
		in.KeyLevels.ImmediateSupport = models.Float(49000)
		_, ok := srMagnet(in)
		assert.False(t, ok)
	})

	t.Run("bearish targets support", func(t *testing.T) {
		in := input(models.Horizon1d, 50000)
		in.Biases = bearish
		in.KeyLevels.ImmediateSupport = models.Float(49000)
		est, ok := srMagnet(in)
		require.True(t, ok)
		assert.InDelta(t, 49300, est.target, 1e-9)
	})

	t.Run("split bias goes half way to the nearest level", func(t *testing.T) {
		in := input(models.Horizon1h, 50000)
		in.KeyLevels.ImmediateSupport = models.Float(49800)
		in.KeyLevels.ImmediateResistance = models.Float(51000)
		est, ok := srMagnet(in)
		require.True(t, ok)
		assert.InDelta(t, 49900, est.target, 1e-9)
	})
}

func TestMeanReversion(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 50000)
	_, ok := meanReversion(in)
	assert.False(t, ok)

	in.Indicators.MovingAverages.EMA21 = models.Float(49000)
	in.Indicators.MovingAverages.VWAP = models.Float(49000)
	est, ok := meanReversion(in)
	require.True(t, ok)
	assert.InDelta(t, 49700, est.target, 1e-9)
	assert.InDelta(t, 0.85-0.006*5, in.cfg.Methods[MethodMeanReversion].confidence(in.Class, est.penalty), 1e-9)
}

func TestVolatilityProjection(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 50000)
	in.Candles = line(30, 49000, 10)
	_, ok := volatilityProjection(in)
	assert.False(t, ok, "needs ATR")

	in.Indicators.Volatility.ATR14 = models.Float(100)
	est, ok := volatilityProjection(in)
	require.True(t, ok)
	assert.InDelta(t, 50020, est.target, 1e-9)

	in.Candles = line(30, 49000, -10)
	est, _ = volatilityProjection(in)
	assert.InDelta(t, 49980, est.target, 1e-9)

	in.Candles = line(30, 49000, 0)
	est, _ = volatilityProjection(in)
	assert.InDelta(t, 50000, est.target, 1e-9)
}

func TestSwingProjection(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)
	in.Candles = line(40, 100, 1)
	_, ok := swingProjection(in)
	assert.False(t, ok, "a straight line has no peaks")

	// two full waves between 90 and 110
	closes := []float64{100, 105, 110, 105, 100, 95, 90, 95, 100, 105, 110, 105, 100, 95, 90, 95, 100}
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	in.Candles = candles

	in.Price = 110
	est, ok := swingProjection(in)
	require.True(t, ok)
	// high 111, low 89: near the top, pulled 40% toward the low
	assert.InDelta(t, 111*0.6+89*0.4, est.target, 1e-9)

	in.Price = 90
	est, _ = swingProjection(in)
	assert.InDelta(t, 89*0.6+111*0.4, est.target, 1e-9)

	in.Price = 100
	est, _ = swingProjection(in)
	assert.Equal(t, 100.0, est.target)
}

func TestPriceVelocity(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)
	in.Candles = line(20, 80, 1)
	est, ok := priceVelocity(in)
	require.True(t, ok)
	assert.InDelta(t, 100.3, est.target, 1e-9)

	in = input(models.Horizon1d, 100)
	in.Candles = line(20, 80, 1)
	est, _ = priceVelocity(in)
	assert.InDelta(t, 100+24*0.5, est.target, 1e-9)

	// slowing rally: velocity positive, acceleration negative
	closes := []float64{100, 110, 118, 124, 128, 130, 131}
	in = input(models.Horizon1h, 131)
	for _, c := range closes {
		in.Candles = append(in.Candles, models.Candle{Open: c, High: c, Low: c, Close: c})
	}
	est, _ = priceVelocity(in)
	v := (8.0 + 6 + 4 + 2 + 1) / 5
	assert.InDelta(t, 131+v*0.3*0.7, est.target, 1e-9)
}

func TestCandlePattern(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)
	_, ok := candlePattern(in)
	assert.False(t, ok)

	in.Candles = line(10, 90, 1)
	est, ok := candlePattern(in)
	require.True(t, ok)
	// every bar spans 2 and closes above its open
	assert.InDelta(t, 100.6, est.target, 1e-9)
}

func TestSmartMoneyTargets(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)

	for _, fn := range []estimatorFunc{orderBlockTarget, liquidityTarget, fvgFillTarget} {
		_, ok := fn(in)
		assert.False(t, ok)
	}

	in.OrderBlocks = []models.OrderBlock{
		{PriceHigh: 99, PriceLow: 97, BlockType: models.BullishBlock, Mitigated: true},
		{PriceHigh: 92, PriceLow: 90, BlockType: models.BullishBlock},
		{PriceHigh: 112, PriceLow: 108, BlockType: models.BearishBlock},
	}
	est, ok := orderBlockTarget(in)
	require.True(t, ok)
	assert.InDelta(t, 91*0.3+100*0.7, est.target, 1e-9)
	assert.Equal(t, "Bullish at $91.00", est.note)

	in.LiquidityZones = []models.LiquidityZone{
		{PriceStart: 101, PriceEnd: 103, ZoneType: models.BuySide, Swept: true},
		{PriceStart: 94, PriceEnd: 96, ZoneType: models.SellSide},
	}
	est, ok = liquidityTarget(in)
	require.True(t, ok)
	assert.InDelta(t, 95*0.25+100*0.75, est.target, 1e-9)
	assert.Equal(t, "Sell-side liquidity", est.note)

	in.FairValueGaps = []models.FairValueGap{
		{High: 106, Low: 104, GapType: models.BearishGap},
		{High: 130, Low: 120, GapType: models.BearishGap},
	}
	est, ok = fvgFillTarget(in)
	require.True(t, ok)
	assert.InDelta(t, 105*0.2+100*0.8, est.target, 1e-9)
}

func TestStatisticalProjection(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)
	closes := []float64{100, 125, 156.25, 195.3125}
	for _, c := range closes {
		in.Candles = append(in.Candles, models.Candle{Open: c, High: c, Low: c, Close: c})
	}
	est, ok := statisticalProjection(in)
	require.True(t, ok)
	assert.InDelta(t, 112.5, est.target, 1e-9)
	assert.Equal(t, 0.0, est.penalty)
	assert.InDelta(t, 0.7, in.cfg.Methods[MethodStatistical].confidence(in.Class, est.penalty), 1e-12)

	in.Candles = in.Candles[:2]
	_, ok = statisticalProjection(in)
	assert.False(t, ok)
}

func TestDivergenceTarget(t *testing.T) {
	t.Parallel()
	in := input(models.Horizon1h, 100)
	in.Candles = line(20, 80, 1)
	_, ok := divergenceTarget(in)
	assert.False(t, ok, "needs RSI")

	in.Indicators.Momentum.RSI14 = models.Float(40)
	est, ok := divergenceTarget(in)
	require.True(t, ok)
	assert.InDelta(t, 99.7, est.target, 1e-9)

	in.Indicators.Momentum.RSI14 = models.Float(65)
	est, _ = divergenceTarget(in)
	assert.Equal(t, 100.0, est.target)

	in.Candles = line(20, 120, -1)
	est, _ = divergenceTarget(in)
	assert.InDelta(t, 100.3, est.target, 1e-9)
}

func TestAnchorWeights(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	anchor := cfg.Methods[MethodAnchor]

	assert.Equal(t, 5.0, anchor.Weight[models.ShortHorizon])
	assert.Equal(t, 3.0, anchor.Weight[models.MediumHorizon])
	assert.Equal(t, 2.0, anchor.Weight[models.LongHorizon])
	assert.Equal(t, 0.9, anchor.confidence(models.ShortHorizon, 0))
	assert.Equal(t, 0.7, anchor.confidence(models.MediumHorizon, 0))
	assert.Equal(t, 0.5, anchor.confidence(models.LongHorizon, 0))
}
