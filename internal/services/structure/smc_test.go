package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
)

func TestFindOrderBlocks(t *testing.T) {
	t.Parallel()
	d := New()

	t.Run("bullish block and mitigation", func(t *testing.T) {
		candles := []models.Candle{
			flat(0, 101), flat(1, 101), flat(2, 101),
			bar(3, 102, 103, 99, 100),
			bar(4, 100, 104.5, 99.8, 104),
			flat(5, 101), flat(6, 101), flat(7, 101),
		}
		blocks := d.FindOrderBlocks(candles, "1h")
		require.Len(t, blocks, 1)
		assert.Equal(t, models.BullishBlock, blocks[0].BlockType)
		assert.Equal(t, 103.0, blocks[0].PriceHigh)
		assert.Equal(t, 99.0, blocks[0].PriceLow)
		assert.Equal(t, "1h", blocks[0].Timeframe)
		assert.False(t, blocks[0].Mitigated)

		candles = append(candles, bar(8, 100, 100.5, 98.5, 100))
		all := d.DetectOrderBlocks(candles, "1h")
		require.Len(t, all, 1)
		assert.True(t, all[0].Mitigated)
		assert.Empty(t, d.FindOrderBlocks(candles, "1h"))
	})

	t.Run("bearish block", func(t *testing.T) {
		candles := []models.Candle{
			flat(0, 101), flat(1, 101), flat(2, 101),
			bar(3, 100, 103, 99, 102),
			bar(4, 101, 101.2, 97.5, 98),
			flat(5, 101), flat(6, 101),
		}
		blocks := d.FindOrderBlocks(candles, "4h")
		require.Len(t, blocks, 1)
		assert.Equal(t, models.BearishBlock, blocks[0].BlockType)
		assert.Equal(t, 101.0, blocks[0].Mid())
	})

	t.Run("short window", func(t *testing.T) {
		blocks := d.FindOrderBlocks([]models.Candle{flat(0, 1), flat(1, 1)}, "1h")
		assert.NotNil(t, blocks)
		assert.Empty(t, blocks)
	})
}

func TestFindFairValueGaps(t *testing.T) {
	t.Parallel()
	d := New()

	candles := []models.Candle{
		bar(0, 99, 100, 98, 99.5),
		bar(1, 100, 106.5, 99.5, 106),
		bar(2, 106, 108, 103, 107),
		bar(3, 107, 108.5, 106, 107.5),
		bar(4, 107, 108.5, 106, 107.5),
	}
	gaps := d.FindFairValueGaps(candles)
	require.Len(t, gaps, 1)
	assert.Equal(t, models.BullishGap, gaps[0].GapType)
	assert.Equal(t, 103.0, gaps[0].High)
	assert.Equal(t, 100.0, gaps[0].Low)
	assert.False(t, gaps[0].Filled)
	assert.Equal(t, 0.0, gaps[0].FillPercentage)

	assert.Empty(t, d.FindFairValueGaps(candles[:4]))

	// a close below the whole bullish gap counts as fully filled and drops it
	through := append(append([]models.Candle{}, candles[:4]...), bar(4, 104, 104, 98, 99))
	assert.Empty(t, d.FindFairValueGaps(through))
}

func TestFillPercentage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		kind  models.GapType
		price float64
		want  float64
	}{
		{"bullish half", models.BullishGap, 101.5, 50},
		{"bullish below gap", models.BullishGap, 99, 100},
		{"bullish above gap", models.BullishGap, 104, 0},
		{"bearish half", models.BearishGap, 101.5, 50},
		{"bearish above gap", models.BearishGap, 110, 100},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, FillPercentage(103, 100, tc.kind, tc.price), 1e-9)
		})
	}

	gap := newGap(103, 100, models.BullishGap, 101.5)
	assert.False(t, gap.Filled, "exactly half is not filled")
	gap = newGap(103, 100, models.BullishGap, 101)
	assert.True(t, gap.Filled)
}

func TestFindLiquidityZones(t *testing.T) {
	t.Parallel()
	d := New()

	candles := make([]models.Candle, 60)
	for i := range candles {
		candles[i] = flat(i, 100)
	}

	t.Run("equal highs and lows", func(t *testing.T) {
		zones := d.FindLiquidityZones(candles)
		require.Len(t, zones, 2)
		kinds := []models.LiquiditySide{zones[0].ZoneType, zones[1].ZoneType}
		assert.ElementsMatch(t, []models.LiquiditySide{models.BuySide, models.SellSide}, kinds)
		for _, z := range zones {
			assert.Equal(t, models.Strong, z.Strength)
			assert.False(t, z.Swept)
			assert.Less(t, z.PriceStart, z.PriceEnd)
		}
	})

	t.Run("last candle sweeps buy side", func(t *testing.T) {
		swept := append([]models.Candle(nil), candles...)
		swept[59] = bar(59, 100, 102, 99.5, 101)
		for _, z := range d.FindLiquidityZones(swept) {
			if z.ZoneType == models.BuySide {
				assert.True(t, z.Swept)
			} else {
				assert.False(t, z.Swept)
			}
		}
	})

	t.Run("short window", func(t *testing.T) {
		zones := d.FindLiquidityZones(candles[:49])
		assert.NotNil(t, zones)
		assert.Empty(t, zones)
	})
}

func TestFindSupplyDemandZones(t *testing.T) {
	t.Parallel()
	d := New()

	build := func(retest bool) []models.Candle {
		out := make([]models.Candle, 0, 40)
		for i := 0; i < 10; i++ {
			out = append(out, bar(i, 100, 100.5, 99.8, 100.2))
		}
		out = append(out, bar(10, 100, 104.2, 99.9, 104))
		for i := 11; i < 40; i++ {
			out = append(out, bar(i, 104.3, 104.7, 104.1, 104.5))
		}
		if retest {
			out[30] = bar(30, 104.3, 104.7, 99.7, 104.5)
		}
		return out
	}

	zones := d.FindSupplyDemandZones(build(false))
	require.Len(t, zones, 1)
	assert.Equal(t, models.DemandZone, zones[0].ZoneType)
	assert.Equal(t, models.Strong, zones[0].Strength)
	assert.Equal(t, 100.0, zones[0].PriceHigh)
	assert.Equal(t, 99.8, zones[0].PriceLow)
	assert.True(t, zones[0].Fresh)

	assert.Empty(t, d.FindSupplyDemandZones(build(true)))
	assert.Empty(t, d.FindSupplyDemandZones(build(false)[:29]))
}

func TestFindSupportResistance(t *testing.T) {
	t.Parallel()
	d := New()

	candles := path([2]float64{0, 100}, [2]float64{15, 120}, [2]float64{35, 90}, [2]float64{59, 106})
	levels := d.FindSupportResistance(candles)
	require.Len(t, levels, 2)
	assert.Equal(t, models.Resistance, levels[0].LevelType)
	assert.InDelta(t, 120.5, levels[0].Price, 1e-9)
	assert.Equal(t, models.Support, levels[1].LevelType)
	assert.InDelta(t, 89.5, levels[1].Price, 1e-9)

	assert.Empty(t, d.FindSupportResistance(candles[:49]))
}
