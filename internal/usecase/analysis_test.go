package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	"TradeLens/internal/repository"
	"TradeLens/internal/services/indicators"
	"TradeLens/internal/services/predictor"
	"TradeLens/internal/services/structure"
	"TradeLens/pkg/cache"
)

type fakeMarket struct {
	mu      sync.Mutex
	price   float64
	fail    map[models.Timeframe]error
	unknown bool
	calls   map[models.Timeframe]int
}

func (m *fakeMarket) GetCandles(_ context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[models.Timeframe]int)
	}
	m.calls[tf]++
	if m.unknown {
		return nil, fmt.Errorf("klines %s: %w", symbol, domrepo.ErrUnknownSymbol)
	}
	if err := m.fail[tf]; err != nil {
		return nil, err
	}
	return wave(limit, tf.Duration(), m.price), nil
}

func (m *fakeMarket) GetPrice(_ context.Context, symbol string) (float64, error) {
	if m.unknown {
		return 0, fmt.Errorf("ticker %s: %w", symbol, domrepo.ErrUnknownSymbol)
	}
	return m.price, nil
}

func (m *fakeMarket) Calls(tf models.Timeframe) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[tf]
}

// wave is a drifting sine so every timeframe has swings, gaps and blocks,
// ending near last.
func wave(n int, step time.Duration, last float64) []models.Candle {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	prev := last * 0.9
	for i := range out {
		c := last*0.9 + last*0.1*float64(i)/float64(n) + last*0.02*math.Sin(float64(i)/4)
		out[i] = models.Candle{
			Timestamp: t0.Add(time.Duration(i) * step),
			Open:      prev,
			High:      math.Max(prev, c) * 1.002,
			Low:       math.Min(prev, c) * 0.998,
			Close:     c,
			Volume:    100 + float64(i%7)*10,
		}
		prev = c
	}
	return out
}

type analysisFixture struct {
	uc     *AnalysisUseCase
	market *fakeMarket
	clk    *clock
}

func newAnalysisFixture(t *testing.T) *analysisFixture {
	t.Helper()
	clk := &clock{now: time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)}
	mc := cache.NewMemoryCache(cache.WithMemoryClock(clk.Now))
	t.Cleanup(func() { _ = mc.Close() })

	cfg := predictor.DefaultConfig()
	store := repository.NewCachePredictionStore(mc, repository.WithStoreClock(clk.Now))
	preds := NewPredictionService(store, cfg, WithClock(clk.Now))
	market := &fakeMarket{price: 50000}

	uc := NewAnalysisUseCase(market, indicators.New(), structure.New(), predictor.New(cfg), preds,
		WithCandleLimit(300),
		WithAnalysisClock(clk.Now),
	)
	return &analysisFixture{uc: uc, market: market, clk: clk}
}

func TestSnapshot(t *testing.T) {
	f := newAnalysisFixture(t)

	snap, err := f.uc.Snapshot(context.Background(), "btc-usdt")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", snap.Symbol)
	assert.Equal(t, 50000.0, snap.CurrentPrice)
	assert.Len(t, snap.Candles, len(models.AnalysisTimeframes))
	assert.Len(t, snap.Biases, len(models.AnalysisTimeframes))
	for i, b := range snap.Biases {
		assert.Equal(t, models.AnalysisTimeframes[i], b.Timeframe)
	}
	assert.Len(t, snap.Candles[models.TF1h], 300)
}

func TestSnapshotSkipsFailedTimeframes(t *testing.T) {
	f := newAnalysisFixture(t)
	f.market.fail = map[models.Timeframe]error{models.TF5m: errors.New("timeout")}

	snap, err := f.uc.Snapshot(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.NotContains(t, snap.Candles, models.TF5m)
	assert.Len(t, snap.Biases, len(models.AnalysisTimeframes)-1)
}

func TestSnapshotFailures(t *testing.T) {
	f := newAnalysisFixture(t)
	f.market.unknown = true
	_, err := f.uc.Snapshot(context.Background(), "NOPE/USDT")
	assert.ErrorIs(t, err, domrepo.ErrUnknownSymbol)

	f = newAnalysisFixture(t)
	f.market.fail = make(map[models.Timeframe]error)
	for _, tf := range models.AnalysisTimeframes {
		f.market.fail[tf] = errors.New("down")
	}
	_, err = f.uc.Snapshot(context.Background(), "BTC/USDT")
	assert.ErrorIs(t, err, domrepo.ErrNoCandles)
}

func TestAnalyze(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	full, err := f.uc.Analyze(ctx, "BTC/USDT")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", full.Symbol)
	assert.Len(t, full.TimeframeBiases, 6)
	assert.Len(t, full.EMAAlignment, 6)
	assert.NotEmpty(t, full.MTFSummary.Alignment)
	assert.NotEmpty(t, full.MarketContext.MarketPhase)
	assert.NotEmpty(t, full.ConfidenceReasoning)
	require.Len(t, full.Predictions, 3)
	for _, h := range models.Horizons {
		p := full.Predictions[h]
		assert.Equal(t, h, p.Timeframe)
		assert.LessOrEqual(t, p.PredictedLow, p.PredictedHigh, h)
		assert.True(t, p.IsLocked)
		assert.Equal(t, f.clk.Now(), p.CreatedAt)
	}

	f.clk.Advance(10 * time.Minute)
	f.market.price = 51000
	again, err := f.uc.Analyze(ctx, "BTC/USDT")
	require.NoError(t, err)
	for _, h := range models.Horizons {
		assert.Equal(t, full.Predictions[h].PredictedTarget, again.Predictions[h].PredictedTarget)
		assert.Equal(t, full.Predictions[h].CreatedAt, again.Predictions[h].CreatedAt)
		assert.Equal(t, 51000.0, again.Predictions[h].CurrentPrice)
	}
}

func TestPredictSkipsSnapshotWhenLocked(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	first, err := f.uc.Predict(ctx, "BTC/USDT", models.Horizon1d)
	require.NoError(t, err)
	fetched := f.market.Calls(models.TF1d)
	require.Equal(t, 1, fetched)

	second, err := f.uc.Predict(ctx, "BTC/USDT", models.Horizon1d)
	require.NoError(t, err)
	assert.Equal(t, fetched, f.market.Calls(models.TF1d))
	assert.Equal(t, first.PredictedTarget, second.PredictedTarget)

	st, err := f.uc.PredictionStatus(ctx, "BTC/USDT")
	require.NoError(t, err)
	assert.NotNil(t, st.Predictions[models.Horizon1d])
	assert.Nil(t, st.Predictions[models.Horizon1h])
}

func TestSingleTimeframeReports(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	sr, err := f.uc.Structure(ctx, "BTC/USDT", models.TF4h, 200)
	require.NoError(t, err)
	assert.Equal(t, models.TF4h, sr.Timeframe)
	assert.NotEmpty(t, sr.Structure.Trend)

	ir, err := f.uc.Indicators(ctx, "BTC/USDT", models.TF1h, 250)
	require.NoError(t, err)
	assert.NotNil(t, ir.Indicators.Momentum.RSI14)
	assert.NotEmpty(t, ir.EMAAlignment)

	fr, err := f.uc.Fibonacci(ctx, "BTC/USDT", models.TF4h, 100)
	require.NoError(t, err)
	assert.Greater(t, fr.Levels.High, fr.Levels.Low)
	assert.Equal(t, 100, fr.Lookback)

	tk, err := f.uc.Ticker(ctx, "btc-usdt")
	require.NoError(t, err)
	assert.Equal(t, 50000.0, tk.Price)

	cs, err := f.uc.Candles(ctx, "BTC/USDT", models.TF15m, 20)
	require.NoError(t, err)
	assert.Len(t, cs, 20)
}
