package repository

import (
	"context"

	"TradeLens/internal/domain/models"
)

// CandleStore persists fetched candles for history and outage fallback.
type CandleStore interface {
	SaveCandles(ctx context.Context, symbol string, tf models.Timeframe, candles []models.Candle) error
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf models.Timeframe) ([]models.Candle, error)
}
