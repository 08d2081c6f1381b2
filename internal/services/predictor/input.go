package predictor

import "TradeLens/internal/domain/models"

// Input is the immutable view every estimator reads.
type Input struct {
	Horizon        models.Horizon
	Class          models.HorizonClass
	Price          float64
	Candles        []models.Candle
	Indicators     models.IndicatorBundle
	KeyLevels      models.KeyLevels
	Biases         []models.TimeframeBias
	OrderBlocks    []models.OrderBlock
	FairValueGaps  []models.FairValueGap
	LiquidityZones []models.LiquidityZone

	params HorizonParams
	cfg    *Config
}

// NewInput selects the primary candle series and indicator bundle of the
// snapshot for h, walking the class priority list and then the global
// timeframe order.
func (c *Config) NewInput(h models.Horizon, snap *models.MarketSnapshot) *Input {
	hp := c.Horizon(h)
	in := &Input{
		Horizon: h,
		Class:   h.Class(),
		params:  hp,
		cfg:     c,
	}
	if snap == nil {
		return in
	}
	in.Price = snap.CurrentPrice
	in.KeyLevels = snap.KeyLevels
	in.Biases = snap.Biases
	in.OrderBlocks = snap.SmartMoney.OrderBlocks
	in.FairValueGaps = snap.SmartMoney.FairValueGaps
	in.LiquidityZones = snap.SmartMoney.LiquidityZones

	for _, tf := range withFallback(hp.CandlePriority) {
		if cs := snap.Candles[tf]; len(cs) > 0 {
			in.Candles = models.Tail(cs, hp.Lookback)
			break
		}
	}
	for _, tf := range withFallback(hp.IndicatorPriority) {
		if b, ok := snap.Indicators[tf]; ok {
			in.Indicators = b
			break
		}
	}
	return in
}

func withFallback(priority []models.Timeframe) []models.Timeframe {
	out := make([]models.Timeframe, 0, len(priority)+len(models.AnalysisTimeframes))
	out = append(out, priority...)
	return append(out, models.AnalysisTimeframes...)
}
