package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeLens/internal/domain/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(nil, append([]Option{WithBaseURL(srv.URL), WithRateLimit(1000, 1000)}, opts...)...)
}

func TestGetCandles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "4h", r.URL.Query().Get("interval"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			[1728518400000,"60000.10","60500.00","59800.50","60250.25","123.456",1728532799999,"0",10,"0","0","0"],
			[1728532800000,"60250.25","61000.00","60100.00","60900.00","98.7",1728547199999,"0",8,"0","0","0"]
		]`))
	})

	candles, err := c.GetCandles(context.Background(), "BTC/USDT", models.TF4h, 5000)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC), candles[0].Timestamp)
	assert.Equal(t, 60000.10, candles[0].Open)
	assert.Equal(t, 59800.50, candles[0].Low)
	assert.Equal(t, 60250.25, candles[0].Close)
	assert.Equal(t, 123.456, candles[0].Volume)
	assert.Equal(t, 60900.0, candles[1].Close)
}

func TestGetCandlesRejectsUnknownTimeframe(t *testing.T) {
	c := New(nil)
	_, err := c.GetCandles(context.Background(), "BTC/USDT", models.Timeframe("3m"), 10)
	assert.Error(t, err)
}

func TestGetPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		_, _ = w.Write([]byte(`{"symbol":"ETHUSDT","price":"2456.78000000"}`))
	})
	p, err := c.GetPrice(context.Background(), "eth-usdt")
	require.NoError(t, err)
	assert.Equal(t, 2456.78, p)
}

func TestUnknownSymbolDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}, WithBreaker(1, 2, time.Minute, time.Minute))

	for i := 0; i < 4; i++ {
		_, err := c.GetPrice(context.Background(), "NOPE/USDT")
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	}
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}

func TestBreakerOpensOnUpstreamFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithBreaker(1, 2, time.Minute, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := c.GetCandles(context.Background(), "BTC/USDT", models.TF1h, 10)
		require.Error(t, err)
	}
	_, err := c.GetCandles(context.Background(), "BTC/USDT", models.TF1h, 10)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), calls.Load())
}

func TestParseKlineErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1728518400000,"1","2"]]`))
	})
	_, err := c.GetCandles(context.Background(), "BTC/USDT", models.TF1h, 10)
	assert.ErrorContains(t, err, "short kline")
}
