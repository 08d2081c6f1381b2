package predictor

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"TradeLens/internal/domain/models"
)

// FallbackReasoning marks a prediction produced without any usable signal.
const FallbackReasoning = "Fallback - insufficient data"

// Consensus is the combined view of a set of signals. Prices are rounded to cents.
type Consensus struct {
	Target     float64
	Low        float64
	High       float64
	Direction  models.BiasType
	Confidence float64
	Level      models.ConfidenceLevel
	Reasoning  string
	Fallback   bool
}

// Combine merges signals into a consensus range for horizon h.
func (c *Config) Combine(signals []models.PredictionSignal, price float64, h models.Horizon) Consensus {
	hp := c.Horizon(h)

	var num, den float64
	for _, s := range signals {
		num += s.Target * s.Score()
		den += s.Score()
	}
	if len(signals) == 0 || den == 0 {
		return c.fallback(price, hp)
	}
	target := num / den

	direction := models.Neutral
	switch {
	case target > price*(1+c.DirectionBand):
		direction = models.Bullish
	case target < price*(1-c.DirectionBand):
		direction = models.Bearish
	}

	var spread float64
	if len(signals) > 1 {
		targets := make([]float64, len(signals))
		for i, s := range signals {
			targets[i] = s.Target
		}
		spread = stat.PopStdDev(targets, nil)
	}
	agreement := 1.0
	if price > 0 {
		agreement = 1 - spread/price
	}
	base := hp.BaseRangePct
	rangePct := clamp(base*(2-agreement), base, 3*base)
	amount := price * rangePct

	below, above := 0.5, 0.5
	switch direction {
	case models.Bullish:
		below, above = 1-c.RangeSkew, c.RangeSkew
	case models.Bearish:
		below, above = c.RangeSkew, 1-c.RangeSkew
	}
	low := min(price, target) - amount*below
	high := max(price, target) + amount*above
	if low > high {
		low, high = high, low
	}

	var confSum float64
	for _, s := range signals {
		confSum += s.Confidence
	}
	n := float64(len(signals))
	confidence := min(0.95, confSum/n+min(0.15, 0.01*n))

	return Consensus{
		Target:     round(target, 2),
		Low:        round(low, 2),
		High:       round(high, 2),
		Direction:  direction,
		Confidence: confidence,
		Level:      confidenceLevel(confidence),
		Reasoning:  reasoning(signals),
	}
}

func (c *Config) fallback(price float64, hp HorizonParams) Consensus {
	pct := hp.FallbackRangePct
	return Consensus{
		Target:    round(price, 2),
		Low:       round(price*(1-pct), 2),
		High:      round(price*(1+pct), 2),
		Direction: models.Neutral,
		Level:     models.LowConfidence,
		Reasoning: FallbackReasoning,
		Fallback:  true,
	}
}

func confidenceLevel(v float64) models.ConfidenceLevel {
	switch {
	case v >= 0.7:
		return models.HighConfidence
	case v >= 0.5:
		return models.MediumConfidence
	default:
		return models.LowConfidence
	}
}

// reasoning lists the three strongest votes.
func reasoning(signals []models.PredictionSignal) string {
	ranked := make([]models.PredictionSignal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score() > ranked[b].Score() })

	parts := []string{fmt.Sprintf("Combined %d methods", len(signals))}
	for _, s := range ranked[:min(3, len(ranked))] {
		parts = append(parts, fmt.Sprintf("%s: %s", s.Method, money(s.Target)))
	}
	return strings.Join(parts, "; ")
}
