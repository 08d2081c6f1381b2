package models

import "time"

// PredictionSignal is one estimator's price target.
type PredictionSignal struct {
	Method     string  `json:"method"`
	Target     float64 `json:"target_price"`
	Confidence float64 `json:"confidence"`
	Weight     float64 `json:"weight"`
	Rationale  string  `json:"rationale"`
}

// Score is the signal's voting power in the consensus.
func (s PredictionSignal) Score() float64 { return s.Weight * s.Confidence }

// PriceRangePrediction is the consensus forecast. Only CurrentPrice, TimeRemaining
// and IsLocked change after creation.
type PriceRangePrediction struct {
	Timeframe         Horizon         `json:"timeframe"`
	CurrentPrice      float64         `json:"current_price"`
	PriceAtPrediction float64         `json:"price_at_prediction"`
	PredictedLow      float64         `json:"predicted_low"`
	PredictedHigh     float64         `json:"predicted_high"`
	PredictedTarget   float64         `json:"predicted_target"`
	RangeSize         float64         `json:"range_size"`
	RangePercent      float64         `json:"range_percent"`
	Direction         BiasType        `json:"direction"`
	Confidence        ConfidenceLevel `json:"confidence"`
	Reasoning         string          `json:"reasoning"`
	CreatedAt         time.Time       `json:"created_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
	TimeRemaining     string          `json:"time_remaining,omitempty"`
	IsLocked          bool            `json:"is_locked"`
}

// Forecast is a freshly computed prediction together with the signals behind it.
type Forecast struct {
	Prediction        PriceRangePrediction `json:"prediction"`
	Signals           []PredictionSignal   `json:"signals"`
	NumericConfidence float64              `json:"numeric_confidence"`
}

// PredictionRecord is the persisted unit of the time-lock store.
type PredictionRecord struct {
	ID         string               `json:"id"`
	Instrument string               `json:"instrument"`
	Horizon    Horizon              `json:"horizon"`
	CreatedAt  time.Time            `json:"created_at"`
	ExpiresAt  time.Time            `json:"expires_at"`
	Prediction PriceRangePrediction `json:"prediction"`
}

// Active reports whether the record is still locked at now.
func (r *PredictionRecord) Active(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// PredictionStatus lists the locked predictions of one instrument per horizon.
type PredictionStatus struct {
	Instrument  string                            `json:"instrument"`
	Predictions map[Horizon]*PriceRangePrediction `json:"predictions"`
}
