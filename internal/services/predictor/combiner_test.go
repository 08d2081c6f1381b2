package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
)

func TestCombineFallback(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	cases := []struct {
		horizon   models.Horizon
		low, high float64
	}{
		{models.Horizon1h, 49900, 50100},
		{models.Horizon1d, 49500, 50500},
		{models.Horizon1w, 48500, 51500},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.horizon), func(t *testing.T) {
			c := cfg.Combine(nil, 50000, tc.horizon)
			assert.True(t, c.Fallback)
			assert.Equal(t, 50000.0, c.Target)
			assert.InDelta(t, tc.low, c.Low, 1e-9)
			assert.InDelta(t, tc.high, c.High, 1e-9)
			assert.Equal(t, models.Neutral, c.Direction)
			assert.Equal(t, models.LowConfidence, c.Level)
			assert.Equal(t, FallbackReasoning, c.Reasoning)
			assert.LessOrEqual(t, c.Low, c.High)
		})
	}

	t.Run("zero total score", func(t *testing.T) {
		c := cfg.Combine([]models.PredictionSignal{{Method: "x", Target: 60000, Weight: 2, Confidence: 0}}, 50000, models.Horizon1h)
		assert.True(t, c.Fallback)
	})
}

func TestCombineAnchorOnly(t *testing.T) {
	t.Parallel()
	signals := []models.PredictionSignal{
		{Method: string(MethodAnchor), Target: 50000, Weight: 5, Confidence: 0.9},
	}
	c := DefaultConfig().Combine(signals, 50000, models.Horizon1h)

	assert.False(t, c.Fallback)
	assert.Equal(t, 50000.0, c.Target)
	assert.Equal(t, models.Neutral, c.Direction)
	assert.Equal(t, 49925.0, c.Low)
	assert.Equal(t, 50075.0, c.High)
	assert.InDelta(t, 150, c.High-c.Low, 1e-9)
	assert.InDelta(t, 0.91, c.Confidence, 1e-12)
	assert.Equal(t, models.HighConfidence, c.Level)
	assert.Contains(t, c.Reasoning, "Combined 1 methods; Current Price Anchor: $50")
}

func TestCombineDirectionSkew(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	bull := cfg.Combine([]models.PredictionSignal{{Method: "up", Target: 51000, Weight: 1, Confidence: 1}}, 50000, models.Horizon1h)
	assert.Equal(t, models.Bullish, bull.Direction)
	assert.InDelta(t, 49940, bull.Low, 1e-9)
	assert.InDelta(t, 51090, bull.High, 1e-9)
	assert.InDelta(t, 0.95, bull.Confidence, 1e-12)

	bear := cfg.Combine([]models.PredictionSignal{{Method: "down", Target: 49000, Weight: 1, Confidence: 0.4}}, 50000, models.Horizon1h)
	assert.Equal(t, models.Bearish, bear.Direction)
	assert.InDelta(t, 48910, bear.Low, 1e-9)
	assert.InDelta(t, 50060, bear.High, 1e-9)
	assert.Equal(t, models.LowConfidence, bear.Level)

	// inside the 0.1% band
	flat := cfg.Combine([]models.PredictionSignal{{Method: "flat", Target: 50040, Weight: 1, Confidence: 0.6}}, 50000, models.Horizon1h)
	assert.Equal(t, models.Neutral, flat.Direction)
	assert.Equal(t, models.MediumConfidence, flat.Level)
}

func TestCombineDisagreementWidensRange(t *testing.T) {
	t.Parallel()
	signals := []models.PredictionSignal{
		{Method: "a", Target: 49000, Weight: 1, Confidence: 0.5},
		{Method: "b", Target: 51000, Weight: 1, Confidence: 0.5},
	}
	c := DefaultConfig().Combine(signals, 50000, models.Horizon1h)
	assert.Equal(t, models.Neutral, c.Direction)
	assert.Equal(t, 50000.0, c.Target)
	assert.InDelta(t, 49923.5, c.Low, 1e-9)
	assert.InDelta(t, 50076.5, c.High, 1e-9)
}

func TestCombineRangeCappedAtThreeTimesBase(t *testing.T) {
	t.Parallel()
	signals := []models.PredictionSignal{
		{Method: "a", Target: -200, Weight: 1, Confidence: 0.5},
		{Method: "b", Target: 400, Weight: 1, Confidence: 0.5},
	}
	c := DefaultConfig().Combine(signals, 100, models.Horizon1d)
	// range pct capped at 4.5%
	assert.InDelta(t, 100-2.25, c.Low, 1e-9)
	assert.InDelta(t, 100+2.25, c.High, 1e-9)
}

func TestReasoningTopThree(t *testing.T) {
	t.Parallel()
	signals := []models.PredictionSignal{
		{Method: "A", Target: 100, Weight: 1, Confidence: 0.5},
		{Method: "B", Target: 101, Weight: 2, Confidence: 0.5},
		{Method: "C", Target: 102, Weight: 3, Confidence: 0.5},
		{Method: "D", Target: 103.456, Weight: 4, Confidence: 0.5},
	}
	assert.Equal(t, "Combined 4 methods; D: $103.46; C: $102.00; B: $101.00", reasoning(signals))
	require.Equal(t, "A", signals[0].Method, "input order untouched")
}

func TestConfidenceLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, models.LowConfidence, confidenceLevel(0.49))
	assert.Equal(t, models.MediumConfidence, confidenceLevel(0.5))
	assert.Equal(t, models.MediumConfidence, confidenceLevel(0.69))
	assert.Equal(t, models.HighConfidence, confidenceLevel(0.7))
}
