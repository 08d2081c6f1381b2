package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	"TradeLens/pkg/cache"
	"TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
	"TradeLens/pkg/util"
)

// MarketData is a read-through cache in front of an upstream CandleSource.
// Fetched candles are persisted to the optional CandleStore, which also
// serves reads while the upstream is failing.
type MarketData struct {
	source    domrepo.CandleSource
	cache     cache.Service
	store     domrepo.CandleStore
	candleTTL time.Duration
	tickerTTL time.Duration
	log       *logger.Logger
	metrics   domrepo.Metrics
}

var _ domrepo.CandleSource = (*MarketData)(nil)

// MarketDataOption configures MarketData.
type MarketDataOption func(*MarketData)

// WithCandleStore enables persistence and outage fallback.
func WithCandleStore(s domrepo.CandleStore) MarketDataOption {
	return func(m *MarketData) {
		m.store = s
	}
}

// WithTTLs sets the candle and ticker cache lifetimes.
func WithTTLs(candles, ticker time.Duration) MarketDataOption {
	return func(m *MarketData) {
		m.candleTTL = candles
		m.tickerTTL = ticker
	}
}

func WithMarketLogger(l *logger.Logger) MarketDataOption {
	return func(m *MarketData) {
		m.log = l
	}
}

func WithMarketMetrics(r domrepo.Metrics) MarketDataOption {
	return func(m *MarketData) {
		m.metrics = r
	}
}

func NewMarketData(source domrepo.CandleSource, c cache.Service, opts ...MarketDataOption) *MarketData {
	m := &MarketData{
		source:    source,
		cache:     c,
		candleTTL: 30 * time.Second,
		tickerTTL: 5 * time.Second,
		log:       logger.Nop(),
		metrics:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MarketData) GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("candles", util.SafeSymbol(symbol), tf, limit)

	var candles []models.Candle
	if err := m.cache.Get(ctx, key, &candles); err == nil {
		return candles, nil
	}

	start := time.Now()
	candles, err := m.source.GetCandles(ctx, symbol, tf, limit)
	m.metrics.RecordLatency("fetch_candles", time.Since(start).Seconds())
	if err != nil {
		m.metrics.RecordError("fetch_candles")
		return m.fallbackCandles(ctx, symbol, tf, limit, err)
	}

	if err := m.cache.Set(ctx, key, candles, m.candleTTL); err != nil {
		m.log.Warn("candle cache write failed", logger.String("key", key), logger.Error(err))
	}
	if m.store != nil && len(candles) > 0 {
		if err := m.store.SaveCandles(ctx, symbol, tf, candles); err != nil {
			m.log.Warn("candle persistence failed",
				logger.String("symbol", symbol),
				logger.String("tf", string(tf)),
				logger.Error(err))
		}
	}
	return candles, nil
}

func (m *MarketData) GetPrice(ctx context.Context, symbol string) (float64, error) {
	key := cache.GenerateKey("ticker", util.SafeSymbol(symbol))

	var price float64
	if err := m.cache.Get(ctx, key, &price); err == nil {
		return price, nil
	}

	price, err := m.source.GetPrice(ctx, symbol)
	if err != nil {
		m.metrics.RecordError("fetch_price")
		candles, cerr := m.GetCandles(ctx, symbol, models.TF1h, 1)
		if cerr != nil || len(candles) == 0 {
			return 0, fmt.Errorf("get price %s: %w", symbol, err)
		}
		price = candles[len(candles)-1].Close
		m.log.Warn("ticker unavailable, using last close",
			logger.String("symbol", symbol),
			logger.Float64("price", price),
			logger.Error(err))
	}

	_ = m.cache.Set(ctx, key, price, m.tickerTTL)
	m.metrics.RecordLastPrice(symbol, price)
	return price, nil
}

func (m *MarketData) fallbackCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int, cause error) ([]models.Candle, error) {
	if m.store == nil {
		return nil, fmt.Errorf("get candles %s %s: %w", symbol, tf, cause)
	}
	candles, err := m.store.GetLatestNCandles(ctx, symbol, limit, tf)
	if err != nil || len(candles) == 0 {
		return nil, fmt.Errorf("get candles %s %s: %w", symbol, tf, errors.Join(cause, err, domrepo.ErrNoCandles))
	}
	m.log.Warn("serving stored candles, upstream failed",
		logger.String("symbol", symbol),
		logger.String("tf", string(tf)),
		logger.Int("rows", len(candles)),
		logger.Error(cause))
	return candles, nil
}
