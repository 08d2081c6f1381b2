package structure

// Option configures Detector.
type Option func(*Config)

// Config holds detector thresholds.
type Config struct {
	SwingRadius       int
	LevelRadius       int
	MinCandles        int
	BreakLookback     int
	MaxClassified     int
	MaxFeatures       int
	LiquidityWindow   int
	LiquidityTol      float64
	LiquidityMin      int
	SupplyDemandMin   int
	ImpulseMultiplier float64
	StrongMultiplier  float64
}

func defaultConfig() *Config {
	return &Config{
		SwingRadius:       5,
		LevelRadius:       10,
		MinCandles:        20,
		BreakLookback:     5,
		MaxClassified:     5,
		MaxFeatures:       10,
		LiquidityWindow:   10,
		LiquidityTol:      0.002,
		LiquidityMin:      50,
		SupplyDemandMin:   30,
		ImpulseMultiplier: 2,
		StrongMultiplier:  3,
	}
}

// WithSwingRadius sets the neighbourhood radius for structure swings.
func WithSwingRadius(r int) Option {
	return func(c *Config) {
		c.SwingRadius = r
	}
}

// WithLevelRadius sets the neighbourhood radius for support/resistance swings.
func WithLevelRadius(r int) Option {
	return func(c *Config) {
		c.LevelRadius = r
	}
}

// WithMinCandles sets the minimum window for structure analysis.
func WithMinCandles(n int) Option {
	return func(c *Config) {
		c.MinCandles = n
	}
}
