package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
)

func candlesFrom(closes []float64, vol func(i int) float64) []models.Candle {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Timestamp: t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    vol(i),
		}
	}
	return out
}

func constVol(int) float64 { return 100 }

func TestTimeframeBias(t *testing.T) {
	candles := candlesFrom([]float64{100, 101, 102, 103, 110}, constVol)
	ms := models.MarketStructure{
		Trend:       models.Uptrend,
		HigherHighs: []float64{108, 115, 120},
		HigherLows:  []float64{95, 104},
		LowerLows:   []float64{111},
	}

	t.Run("bullish", func(t *testing.T) {
		ind := models.IndicatorBundle{
			MovingAverages: models.MovingAverages{EMA21: models.Float(105), EMA50: models.Float(100)},
			Momentum:       models.MomentumIndicators{RSI14: models.Float(65), MACDHistogram: models.Float(0.5)},
		}
		b := timeframeBias(models.TF1h, candles, ind, ms)
		assert.Equal(t, models.Bullish, b.Bias)
		assert.Equal(t, models.Uptrend, b.Trend)
		assert.Equal(t, "Uptrend structure; Price above EMAs", b.Notes)
		require.NotNil(t, b.KeyLevelAbove)
		assert.Equal(t, 115.0, *b.KeyLevelAbove)
		require.NotNil(t, b.KeyLevelBelow)
		assert.Equal(t, 104.0, *b.KeyLevelBelow)
	})

	t.Run("one point lead stays neutral", func(t *testing.T) {
		ind := models.IndicatorBundle{
			Momentum: models.MomentumIndicators{RSI14: models.Float(30), MACDHistogram: models.Float(-1)},
		}
		b := timeframeBias(models.TF1h, candles, ind, ms)
		// trend +2 vs rsi/macd -2
		assert.Equal(t, models.Neutral, b.Bias)
	})

	t.Run("no candles", func(t *testing.T) {
		b := timeframeBias(models.TF5m, nil, models.IndicatorBundle{}, models.RangingStructure())
		assert.Equal(t, models.Neutral, b.Bias)
		assert.Equal(t, "Insufficient data", b.Notes)
	})
}

func TestDominantTrend(t *testing.T) {
	st := map[models.Timeframe]models.MarketStructure{
		models.TF5m:  {Trend: models.Downtrend},
		models.TF15m: {Trend: models.Uptrend},
		models.TF30m: {Trend: models.Uptrend},
		models.TF1h:  {Trend: models.Transition},
		models.TF4h:  {Trend: models.Downtrend},
	}
	assert.Equal(t, models.Uptrend, dominantTrend(st, lowerTFs))
	assert.Equal(t, models.Transition, dominantTrend(st, midTFs))
	assert.Equal(t, models.Ranging, dominantTrend(st, higherTFs))
}

func TestMarketPhase(t *testing.T) {
	flatCloses := func(n int, f func(i int) float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = f(i)
		}
		return out
	}

	assert.Equal(t, "Undetermined", marketPhase(candlesFrom(flatCloses(29, func(int) float64 { return 100 }), constVol)))

	markup := candlesFrom(flatCloses(40, func(i int) float64 {
		if i < 20 {
			return 100
		}
		return 100 + float64(i-20)*0.6
	}), constVol)
	assert.Equal(t, "Markup", marketPhase(markup))

	rising := func(i int) float64 { return float64(i) }
	accumulation := candlesFrom(flatCloses(40, func(i int) float64 { return 100 + float64(i%2)*0.5 }), rising)
	assert.Equal(t, "Accumulation", marketPhase(accumulation))

	falling := func(i int) float64 { return float64(100 - i) }
	distribution := candlesFrom(flatCloses(40, func(i int) float64 { return 100 + float64(i%2)*0.5 }), falling)
	assert.Equal(t, "Distribution", marketPhase(distribution))

	choppy := candlesFrom(flatCloses(40, func(i int) float64 { return 100 + float64(i%2)*20 }), constVol)
	assert.Equal(t, "Transition", marketPhase(choppy))
}

func TestMTFSummary(t *testing.T) {
	bias := func(tf models.Timeframe, b models.BiasType) models.TimeframeBias {
		return models.TimeframeBias{Timeframe: tf, Bias: b}
	}

	all := []models.TimeframeBias{
		bias(models.TF5m, models.Bullish), bias(models.TF15m, models.Bullish), bias(models.TF30m, models.Bullish),
		bias(models.TF1h, models.Bullish), bias(models.TF4h, models.Bullish), bias(models.TF1d, models.Bullish),
	}
	s := mtfSummary(all)
	assert.Equal(t, "Fully Aligned Bullish", s.Alignment)
	assert.Equal(t, "Bullish (3/3 timeframes)", s.LowerTFBias)

	mostly := []models.TimeframeBias{
		bias(models.TF5m, models.Bearish), bias(models.TF15m, models.Bearish), bias(models.TF30m, models.Neutral),
		bias(models.TF1h, models.Bearish), bias(models.TF4h, models.Neutral), bias(models.TF1d, models.Bullish),
	}
	s = mtfSummary(mostly)
	assert.Equal(t, "Mostly Aligned Bearish", s.Alignment)
	assert.Equal(t, "Bearish (2/3 timeframes)", s.LowerTFBias)
	assert.Equal(t, "Bullish (1/1 timeframes)", s.HigherTFBias)

	s = mtfSummary(nil)
	assert.Equal(t, "Mixed/Conflicting", s.Alignment)
	assert.Equal(t, "No data", s.MidTFBias)
}

func TestKeyLevels(t *testing.T) {
	lv := func(p float64, kind models.LevelType) models.PriceLevel {
		return models.PriceLevel{Price: p, LevelType: kind}
	}
	levels := []models.PriceLevel{
		lv(95, models.Support), lv(90, models.Support), lv(95, models.Support), lv(80, models.Support),
		lv(70, models.Support), lv(60, models.Support), lv(50, models.Support), lv(105, models.Support),
		lv(110, models.Resistance), lv(120, models.Resistance), lv(99, models.Resistance),
	}
	kl := keyLevels(levels, 100)

	require.NotNil(t, kl.ImmediateSupport)
	assert.Equal(t, 95.0, *kl.ImmediateSupport)
	assert.Equal(t, 60.0, *kl.MajorSupport)
	assert.Equal(t, 90.0, kl.InvalidationLong)
	assert.Equal(t, []float64{95, 90, 80}, kl.TargetsShort)

	assert.Equal(t, 110.0, *kl.ImmediateResistance)
	assert.Equal(t, 120.0, *kl.MajorResistance)
	assert.Equal(t, 120.0, kl.InvalidationShort)
	assert.Equal(t, []float64{110, 120}, kl.TargetsLong)

	empty := keyLevels(nil, 200)
	assert.Nil(t, empty.ImmediateSupport)
	assert.InDelta(t, 190.0, empty.InvalidationLong, 1e-9)
	assert.InDelta(t, 210.0, empty.InvalidationShort, 1e-9)
	assert.Empty(t, empty.TargetsLong)
}

func TestAssessConfidence(t *testing.T) {
	trending := []models.TimeframeBias{
		{Trend: models.Uptrend}, {Trend: models.Uptrend}, {Trend: models.Transition}, {Trend: models.Downtrend},
	}
	level, why := assessConfidence(trending,
		models.MultiTimeframeSummary{Alignment: "Fully Aligned Bullish"},
		models.MarketContext{Volatility: models.NormalVolatility})
	assert.Equal(t, models.HighConfidence, level)
	assert.Equal(t, "Strong multi-timeframe alignment; Stable volatility environment; Clear trend structure across timeframes", why)

	level, _ = assessConfidence(nil,
		models.MultiTimeframeSummary{Alignment: "Mixed/Conflicting"},
		models.MarketContext{Volatility: models.ExtremeVolatility})
	assert.Equal(t, models.LowConfidence, level)

	level, _ = assessConfidence(nil,
		models.MultiTimeframeSummary{Alignment: "Mostly Aligned Bearish"},
		models.MarketContext{Volatility: models.HighVolatility})
	assert.Equal(t, models.MediumConfidence, level)
}

func TestOutlooks(t *testing.T) {
	biases := []models.TimeframeBias{
		{Timeframe: models.TF5m, Bias: models.Bullish},
		{Timeframe: models.TF1h, Bias: models.Bullish},
		{Timeframe: models.TF1d, Bias: models.Bearish},
		{Timeframe: models.TF4h, Bias: models.Bearish},
	}
	kl := models.KeyLevels{ImmediateResistance: models.Float(51234.5), MajorSupport: models.Float(48000)}
	ctx := models.MarketContext{ShortTFTrend: models.Uptrend, MidTFTrend: models.Uptrend, HighTFTrend: models.Downtrend}

	h := hourOutlook(biases, kl, ctx)
	assert.Equal(t, models.Bullish, h.Bias)
	assert.Equal(t, "Expect continuation higher toward $51,234.50", h.ExpectedScenario)
	assert.Equal(t, "Break of recent swing low", h.Invalidation)
	assert.Equal(t, "High", h.Probability)

	d := dayOutlook(biases, kl, ctx)
	assert.Equal(t, models.Bearish, d.Bias)
	assert.Equal(t, "Bearish daily close expected. Target zone: $48,000.00", d.ExpectedScenario)
	assert.Equal(t, "Medium", d.Probability)
}
