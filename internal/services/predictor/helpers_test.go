package predictor

import (
	"sync"
	"time"

	"TradeLens/internal/domain/models"
	"TradeLens/pkg/metrics"
)

var t0 = time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

func line(n int, start, step float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		c := start + step*float64(i)
		out[i] = models.Candle{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c - step/2,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    10,
		}
	}
	return out
}

func input(h models.Horizon, price float64) *Input {
	in := DefaultConfig().NewInput(h, nil)
	in.Price = price
	return in
}

type outcomeMetrics struct {
	metrics.Nop
	mu       sync.Mutex
	outcomes map[string]string
}

func newOutcomeMetrics() *outcomeMetrics {
	return &outcomeMetrics{outcomes: map[string]string{}}
}

func (m *outcomeMetrics) RecordEstimator(method, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[method] = outcome
}

func (m *outcomeMetrics) get(method Method) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[string(method)]
}
