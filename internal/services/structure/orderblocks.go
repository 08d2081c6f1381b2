package structure

import "TradeLens/internal/domain/models"

// DetectOrderBlocks returns every order block of the window with its
// mitigation flag, oldest first.
func (d *Detector) DetectOrderBlocks(candles []models.Candle, timeframe string) []models.OrderBlock {
	n := len(candles)
	if n < 5 {
		return nil
	}

	var blocks []models.OrderBlock
	for i := 2; i < n-1; i++ {
		c, next := candles[i], candles[i+1]

		// down candle whose high is taken out by the next close
		if c.Bearish() && next.Close > c.High {
			mitigated := false
			for _, later := range candles[i+2:] {
				if later.Low < c.Low {
					mitigated = true
					break
				}
			}
			blocks = append(blocks, models.OrderBlock{
				PriceHigh: c.High,
				PriceLow:  c.Low,
				BlockType: models.BullishBlock,
				Mitigated: mitigated,
				Timeframe: timeframe,
				Index:     i,
			})
		}

		if c.Bullish() && next.Close < c.Low {
			mitigated := false
			for _, later := range candles[i+2:] {
				if later.High > c.High {
					mitigated = true
					break
				}
			}
			blocks = append(blocks, models.OrderBlock{
				PriceHigh: c.High,
				PriceLow:  c.Low,
				BlockType: models.BearishBlock,
				Mitigated: mitigated,
				Timeframe: timeframe,
				Index:     i,
			})
		}
	}
	return blocks
}

// FindOrderBlocks returns the most recent unmitigated order blocks.
func (d *Detector) FindOrderBlocks(candles []models.Candle, timeframe string) []models.OrderBlock {
	fresh := make([]models.OrderBlock, 0)
	for _, ob := range d.DetectOrderBlocks(candles, timeframe) {
		if !ob.Mitigated {
			fresh = append(fresh, ob)
		}
	}
	return lastN(fresh, d.cfg.MaxFeatures)
}
