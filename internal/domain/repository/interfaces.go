package repository

import (
	"context"
	"time"

	"TradeLens/internal/domain/models"
)

// CandleSource provides market data from an upstream venue.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// PredictionStore is the time-lock store keyed by (instrument, horizon).
type PredictionStore interface {
	// Get returns ErrPredictionNotFound for missing, expired and malformed entries.
	Get(ctx context.Context, instrument string, horizon models.Horizon) (*models.PredictionRecord, error)
	// Create stores rec unless an active record already exists. The returned
	// record is whichever one is authoritative; created is false when rec lost.
	Create(ctx context.Context, rec *models.PredictionRecord) (stored *models.PredictionRecord, created bool, err error)
	// Clear removes one entry, every entry of an instrument (empty horizon),
	// or the whole store (empty instrument).
	Clear(ctx context.Context, instrument string, horizon models.Horizon) error
}

// PredictionPublisher receives every freshly created prediction.
type PredictionPublisher interface {
	PublishPrediction(ctx context.Context, rec *models.PredictionRecord) error
	Close() error
}

// PredictionHistory queries previously issued predictions.
type PredictionHistory interface {
	ListPredictions(ctx context.Context, instrument string, horizon models.Horizon, from, to time.Time, limit int) ([]models.PredictionRecord, error)
}

type Metrics interface {
	RecordPredictionCreated(symbol, horizon string)
	RecordCacheResult(horizon string, hit bool)
	RecordEstimator(method, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
