package predictor

import (
	"fmt"
	"time"

	"TradeLens/internal/domain/models"
)

// Method names an estimator family. The name is also the signal label.
type Method string

const (
	MethodMomentum      Method = "Weighted Momentum"
	MethodRegression    Method = "Regression Projection"
	MethodSRMagnet      Method = "S/R Magnet"
	MethodMeanReversion Method = "Mean Reversion"
	MethodVolatility    Method = "Volatility Projection"
	MethodSwing         Method = "Swing Projection"
	MethodVelocity      Method = "Price Velocity"
	MethodCandle        Method = "Candle Pattern"
	MethodOrderBlock    Method = "Order Block"
	MethodLiquidity     Method = "Liquidity Hunt"
	MethodFVG           Method = "FVG Fill"
	MethodStatistical   Method = "Statistical"
	MethodDivergence    Method = "Divergence"
	MethodAnchor        Method = "Current Price Anchor"
)

// PerClass holds one value per horizon class.
type PerClass map[models.HorizonClass]float64

func uniform(v float64) PerClass {
	return PerClass{models.ShortHorizon: v, models.MediumHorizon: v, models.LongHorizon: v}
}

func split(short, rest float64) PerClass {
	return PerClass{models.ShortHorizon: short, models.MediumHorizon: rest, models.LongHorizon: rest}
}

func tiered(short, medium, long float64) PerClass {
	return PerClass{models.ShortHorizon: short, models.MediumHorizon: medium, models.LongHorizon: long}
}

// MethodParams is the voting power and confidence curve of one estimator.
// Confidence is Base minus Sensitivity times the estimator's penalty input,
// clamped to [Floor, Ceiling].
type MethodParams struct {
	Weight      PerClass `yaml:"weight"`
	Base        PerClass `yaml:"base"`
	Sensitivity float64  `yaml:"sensitivity"`
	Floor       float64  `yaml:"floor"`
	Ceiling     float64  `yaml:"ceiling"`
}

func (m MethodParams) confidence(c models.HorizonClass, penalty float64) float64 {
	return clamp(m.Base[c]-m.Sensitivity*penalty, m.Floor, m.Ceiling)
}

// HorizonParams are the per-class lookups shared by the estimators and the combiner.
type HorizonParams struct {
	Lookback int `yaml:"lookback"`
	// Periods is the number of primary bars projected forward.
	Periods            float64 `yaml:"periods"`
	MomentumMultiplier float64 `yaml:"momentum_multiplier"`
	RegressionForward  float64 `yaml:"regression_forward"`
	RegressionBlend    float64 `yaml:"regression_blend"`
	MeanReversionBlend float64 `yaml:"mean_reversion_blend"`
	ATRMultiplier      float64 `yaml:"atr_multiplier"`
	VelocityDecel      float64 `yaml:"velocity_decel"`
	OrderBlockBlend    float64 `yaml:"order_block_blend"`
	LiquidityBlend     float64 `yaml:"liquidity_blend"`
	FVGBlend           float64 `yaml:"fvg_blend"`

	BaseRangePct     float64       `yaml:"base_range_pct"`
	FallbackRangePct float64       `yaml:"fallback_range_pct"`
	LockDuration     time.Duration `yaml:"lock_duration"`

	CandlePriority    []models.Timeframe `yaml:"candle_priority"`
	IndicatorPriority []models.Timeframe `yaml:"indicator_priority"`
}

// ReversionWeights are the relative pulls of each moving average.
type ReversionWeights struct {
	EMA21 float64
	SMA20 float64
	VWAP  float64
}

// Config is the full tuning table of the predictor.
type Config struct {
	Methods  map[Method]MethodParams
	Horizons map[models.HorizonClass]HorizonParams

	// DirectionBand is the relative distance from price inside which the
	// consensus is Neutral.
	DirectionBand float64
	// RangeSkew is the share of the range placed on the side of the direction.
	RangeSkew float64
	// ReversionWeights weight the moving averages of the mean-reversion target.
	ReversionWeights ReversionWeights
	// SRApproach is how far toward the favoured level the magnet moves.
	SRApproach float64
	// SRNeutralApproach applies when the biases are split.
	SRNeutralApproach float64
	// SwingDistance is the minimum spacing of swing-projection peaks.
	SwingDistance int
	// SwingUpper and SwingLower are the in-range positions that trigger reversion.
	SwingUpper, SwingLower float64
	// SwingPull weights the far extreme of the swing range.
	SwingPull float64
	// Tail lengths and scale factors of the price-action estimators.
	VolatilityWindow int
	VelocityWindow   int
	CandleWindow     int
	CandleRangeShare float64
	VelocityDamping  float64
	StatisticalDamp  float64
	DivergenceWindow int
	DivergenceNudge  float64
}

// DefaultConfig returns the stock tuning table.
func DefaultConfig() *Config {
	return &Config{
		Methods: map[Method]MethodParams{
			MethodMomentum:      {Weight: split(2.0, 1.5), Base: uniform(1), Sensitivity: 10, Floor: 0.3, Ceiling: 0.8},
			MethodRegression:    {Weight: uniform(1.5), Base: uniform(0), Sensitivity: -1, Floor: 0.3, Ceiling: 0.85},
			MethodSRMagnet:      {Weight: split(2.5, 2.0), Base: uniform(0.9), Sensitivity: 10, Floor: 0.4, Ceiling: 0.9},
			MethodMeanReversion: {Weight: uniform(1.8), Base: uniform(0.85), Sensitivity: 5, Floor: 0.4, Ceiling: 0.85},
			MethodVolatility:    fixed(uniform(1.5), 0.6),
			MethodSwing:         fixed(uniform(1.3), 0.55),
			MethodVelocity:      fixed(split(2.0, 1.5), 0.5),
			MethodCandle:        fixed(split(1.5, 1.0), 0.45),
			MethodOrderBlock:    fixed(uniform(1.5), 0.6),
			MethodLiquidity:     fixed(uniform(1.2), 0.5),
			MethodFVG:           fixed(uniform(1.3), 0.55),
			MethodStatistical:   {Weight: uniform(1.2), Base: uniform(0.7), Sensitivity: 0.1, Floor: 0.4, Ceiling: 0.7},
			MethodDivergence:    fixed(uniform(1.0), 0.45),
			MethodAnchor:        {Weight: tiered(5, 3, 2), Base: tiered(0.9, 0.7, 0.5), Floor: 0, Ceiling: 1},
		},
		Horizons: map[models.HorizonClass]HorizonParams{
			models.ShortHorizon: {
				Lookback:           60,
				Periods:            1,
				MomentumMultiplier: 0.5,
				RegressionForward:  0.3,
				RegressionBlend:    0.4,
				MeanReversionBlend: 0.3,
				ATRMultiplier:      0.2,
				VelocityDecel:      0.3,
				OrderBlockBlend:    0.3,
				LiquidityBlend:     0.25,
				FVGBlend:           0.2,
				BaseRangePct:       0.003,
				FallbackRangePct:   0.002,
				LockDuration:       time.Hour,
				CandlePriority:     []models.Timeframe{models.TF1h, models.TF30m},
				IndicatorPriority:  []models.Timeframe{models.TF5m, models.TF15m},
			},
			models.MediumHorizon: {
				Lookback:           100,
				Periods:            24,
				MomentumMultiplier: 0.7,
				RegressionForward:  0.3,
				RegressionBlend:    0.4,
				MeanReversionBlend: 0.5,
				ATRMultiplier:      0.8,
				VelocityDecel:      0.5,
				OrderBlockBlend:    0.5,
				LiquidityBlend:     0.4,
				FVGBlend:           0.35,
				BaseRangePct:       0.015,
				FallbackRangePct:   0.01,
				LockDuration:       24 * time.Hour,
				CandlePriority:     []models.Timeframe{models.TF4h, models.TF1d},
				IndicatorPriority:  []models.Timeframe{models.TF1h, models.TF4h},
			},
			models.LongHorizon: {
				Lookback:           200,
				Periods:            168,
				MomentumMultiplier: 0.9,
				RegressionForward:  0.3,
				RegressionBlend:    0.4,
				MeanReversionBlend: 0.7,
				ATRMultiplier:      2.5,
				VelocityDecel:      0.7,
				OrderBlockBlend:    0.5,
				LiquidityBlend:     0.4,
				FVGBlend:           0.35,
				BaseRangePct:       0.05,
				FallbackRangePct:   0.03,
				LockDuration:       7 * 24 * time.Hour,
				CandlePriority:     []models.Timeframe{models.TF1d, models.TF4h},
				IndicatorPriority:  []models.Timeframe{models.TF4h, models.TF1d},
			},
		},
		DirectionBand:     0.001,
		RangeSkew:         0.6,
		ReversionWeights:  ReversionWeights{EMA21: 1.5, SMA20: 1.2, VWAP: 2.0},
		SRApproach:        0.7,
		SRNeutralApproach: 0.5,
		SwingDistance:     5,
		SwingUpper:        0.7,
		SwingLower:        0.3,
		SwingPull:         0.4,
		VolatilityWindow:  10,
		VelocityWindow:    5,
		CandleWindow:      5,
		CandleRangeShare:  0.3,
		VelocityDamping:   0.7,
		StatisticalDamp:   0.5,
		DivergenceWindow:  10,
		DivergenceNudge:   0.003,
	}
}

func fixed(weight PerClass, confidence float64) MethodParams {
	return MethodParams{Weight: weight, Base: uniform(confidence), Floor: 0, Ceiling: 1}
}

// Horizon returns the parameters of h's class.
func (c *Config) Horizon(h models.Horizon) HorizonParams {
	return c.Horizons[h.Class()]
}

// LockDuration returns how long a prediction for h stays locked.
func (c *Config) LockDuration(h models.Horizon) time.Duration {
	return c.Horizon(h).LockDuration
}

// OverrideWeights replaces method weights, keyed by method name and horizon
// class name. A zero weight disables the method for that class.
func (c *Config) OverrideWeights(weights map[string]map[string]float64) error {
	for name, perClass := range weights {
		m := Method(name)
		params, ok := c.Methods[m]
		if !ok {
			return fmt.Errorf("unknown estimator %q", name)
		}
		w := make(PerClass, len(params.Weight))
		for k, v := range params.Weight {
			w[k] = v
		}
		for class, v := range perClass {
			hc := models.HorizonClass(class)
			if _, ok := c.Horizons[hc]; !ok {
				return fmt.Errorf("estimator %q: unknown horizon class %q", name, class)
			}
			if v < 0 {
				return fmt.Errorf("estimator %q: negative weight %v", name, v)
			}
			w[hc] = v
		}
		params.Weight = w
		c.Methods[m] = params
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
