package models

// Every indicator field is optional and nil when the window is too short.

type MovingAverages struct {
	EMA9   *float64 `json:"ema_9,omitempty"`
	EMA21  *float64 `json:"ema_21,omitempty"`
	EMA50  *float64 `json:"ema_50,omitempty"`
	EMA100 *float64 `json:"ema_100,omitempty"`
	EMA200 *float64 `json:"ema_200,omitempty"`
	SMA20  *float64 `json:"sma_20,omitempty"`
	SMA50  *float64 `json:"sma_50,omitempty"`
	SMA200 *float64 `json:"sma_200,omitempty"`
	VWAP   *float64 `json:"vwap,omitempty"`
}

type MomentumIndicators struct {
	RSI14         *float64 `json:"rsi_14,omitempty"`
	RSIState      string   `json:"rsi_state,omitempty"`
	MACDLine      *float64 `json:"macd_line,omitempty"`
	MACDSignal    *float64 `json:"macd_signal,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`
	MACDState     string   `json:"macd_state,omitempty"`
	StochK        *float64 `json:"stoch_k,omitempty"`
	StochD        *float64 `json:"stoch_d,omitempty"`
	StochState    string   `json:"stoch_state,omitempty"`
	CCI           *float64 `json:"cci,omitempty"`
}

type VolatilityIndicators struct {
	ATR14      *float64 `json:"atr_14,omitempty"`
	ATRPercent *float64 `json:"atr_percent,omitempty"`
	BBUpper    *float64 `json:"bb_upper,omitempty"`
	BBMiddle   *float64 `json:"bb_middle,omitempty"`
	BBLower    *float64 `json:"bb_lower,omitempty"`
	BBWidth    *float64 `json:"bb_width,omitempty"`
	BBPosition *float64 `json:"bb_position,omitempty"`
}

// IndicatorBundle is the opaque indicator snapshot of one candle window.
type IndicatorBundle struct {
	MovingAverages MovingAverages       `json:"moving_averages"`
	Momentum       MomentumIndicators   `json:"momentum"`
	Volatility     VolatilityIndicators `json:"volatility"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// FibonacciLevels are retracements of the recent swing range measured from
// its high, plus two upside extensions.
type FibonacciLevels struct {
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	L236   float64 `json:"0.236"`
	L382   float64 `json:"0.382"`
	L500   float64 `json:"0.5"`
	L618   float64 `json:"0.618"`
	L786   float64 `json:"0.786"`
	L1000  float64 `json:"1.0"`
	Ext127 float64 `json:"1.272"`
	Ext162 float64 `json:"1.618"`
}
