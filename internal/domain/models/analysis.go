package models

import "time"

type BiasType string

const (
	Bullish BiasType = "Bullish"
	Bearish BiasType = "Bearish"
	Neutral BiasType = "Neutral"
)

type ConfidenceLevel string

const (
	LowConfidence    ConfidenceLevel = "Low"
	MediumConfidence ConfidenceLevel = "Medium"
	HighConfidence   ConfidenceLevel = "High"
)

type VolatilityState string

const (
	LowVolatility     VolatilityState = "Low"
	NormalVolatility  VolatilityState = "Normal"
	HighVolatility    VolatilityState = "High"
	ExtremeVolatility VolatilityState = "Extreme"
)

// TimeframeBias is the directional read of one timeframe.
type TimeframeBias struct {
	Timeframe     Timeframe  `json:"timeframe"`
	Bias          BiasType   `json:"bias"`
	Trend         TrendState `json:"trend"`
	KeyLevelAbove *float64   `json:"key_level_above,omitempty"`
	KeyLevelBelow *float64   `json:"key_level_below,omitempty"`
	Notes         string     `json:"notes"`
}

// KeyLevels aggregates support and resistance across timeframes.
type KeyLevels struct {
	ImmediateSupport    *float64  `json:"immediate_support,omitempty"`
	ImmediateResistance *float64  `json:"immediate_resistance,omitempty"`
	MajorSupport        *float64  `json:"major_support,omitempty"`
	MajorResistance     *float64  `json:"major_resistance,omitempty"`
	InvalidationLong    float64   `json:"invalidation_long"`
	InvalidationShort   float64   `json:"invalidation_short"`
	TargetsLong         []float64 `json:"targets_long"`
	TargetsShort        []float64 `json:"targets_short"`
}

type MarketContext struct {
	ShortTFTrend     TrendState      `json:"short_tf_trend"`
	MidTFTrend       TrendState      `json:"mid_tf_trend"`
	HighTFTrend      TrendState      `json:"high_tf_trend"`
	Volatility       VolatilityState `json:"volatility"`
	LiquidityContext string          `json:"liquidity_context"`
	MarketPhase      string          `json:"market_phase"`
}

type MultiTimeframeSummary struct {
	LowerTFBias  string `json:"lower_tf_bias"`
	MidTFBias    string `json:"mid_tf_bias"`
	HigherTFBias string `json:"higher_tf_bias"`
	Alignment    string `json:"alignment"`
}

// MarketSnapshot is the immutable multi-timeframe input of one analysis pass.
type MarketSnapshot struct {
	Symbol       string                        `json:"symbol"`
	CurrentPrice float64                       `json:"current_price"`
	Candles      map[Timeframe][]Candle        `json:"-"`
	Indicators   map[Timeframe]IndicatorBundle `json:"indicators"`
	Structures   map[Timeframe]MarketStructure `json:"market_structure"`
	Biases       []TimeframeBias               `json:"timeframe_biases"`
	KeyLevels    KeyLevels                     `json:"key_levels"`
	SmartMoney   SmartMoney                    `json:"smart_money"`
}

// FullAnalysis is the complete multi-timeframe report for one symbol.
type FullAnalysis struct {
	Symbol              string                           `json:"symbol"`
	GeneratedAt         time.Time                        `json:"generated_at"`
	CurrentPrice        float64                          `json:"current_price"`
	MarketContext       MarketContext                    `json:"market_context"`
	MTFSummary          MultiTimeframeSummary            `json:"mtf_summary"`
	TimeframeBiases     []TimeframeBias                  `json:"timeframe_biases"`
	Indicators          map[Timeframe]IndicatorBundle    `json:"indicators"`
	MarketStructure     map[Timeframe]MarketStructure    `json:"market_structure"`
	KeyLevels           KeyLevels                        `json:"key_levels"`
	OrderBlocks         []OrderBlock                     `json:"order_blocks"`
	FairValueGaps       []FairValueGap                   `json:"fair_value_gaps"`
	LiquidityZones      []LiquidityZone                  `json:"liquidity_zones"`
	SupplyDemandZones   []SupplyDemandZone               `json:"supply_demand_zones"`
	EMAAlignment        map[Timeframe]string             `json:"ema_alignment"`
	NextHourOutlook     Outlook                          `json:"next_1h_outlook"`
	NextDayOutlook      Outlook                          `json:"next_1d_outlook"`
	Predictions         map[Horizon]PriceRangePrediction `json:"predictions"`
	Confidence          ConfidenceLevel                  `json:"confidence"`
	ConfidenceReasoning string                           `json:"confidence_reasoning"`
}

// Outlook is the qualitative scenario for the next hour or day.
type Outlook struct {
	Bias                BiasType `json:"bias"`
	ExpectedScenario    string   `json:"expected_scenario"`
	AlternativeScenario string   `json:"alternative_scenario"`
	Invalidation        string   `json:"invalidation"`
	Probability         string   `json:"probability"`
}

// FibonacciReport is the retracement map of one symbol/timeframe.
type FibonacciReport struct {
	Symbol       string          `json:"symbol"`
	Timeframe    Timeframe       `json:"timeframe"`
	Lookback     int             `json:"lookback"`
	CurrentPrice float64         `json:"current_price"`
	Levels       FibonacciLevels `json:"levels"`
}

// StructureReport is the single-timeframe structure and smart-money read.
type StructureReport struct {
	Symbol     string          `json:"symbol"`
	Timeframe  Timeframe       `json:"timeframe"`
	Structure  MarketStructure `json:"market_structure"`
	Levels     []PriceLevel    `json:"support_resistance"`
	SmartMoney SmartMoney      `json:"smart_money"`
}

// IndicatorsReport is the indicator bundle of one symbol/timeframe.
type IndicatorsReport struct {
	Symbol       string          `json:"symbol"`
	Timeframe    Timeframe       `json:"timeframe"`
	CurrentPrice float64         `json:"current_price"`
	Indicators   IndicatorBundle `json:"indicators"`
	EMAAlignment string          `json:"ema_alignment"`
}
