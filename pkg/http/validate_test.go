package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type candleQuery struct {
	Symbol    string `param:"symbol" validate:"required,symbol"`
	Timeframe string `query:"timeframe" default:"1h" validate:"oneof=1h 4h"`
	Limit     int    `query:"limit" default:"500" validate:"gte=20,lte=1000"`
}

func bind(t *testing.T, symbol, query string) (*candleQuery, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/candles/"+symbol+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/candles/:symbol")
	c.SetParamNames("symbol")
	c.SetParamValues(symbol)

	q := &candleQuery{}
	return q, ReadAndValidateRequest(c, q)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	q, verr := bind(t, "BTC-USDT", "")
	require.Nil(t, verr)
	assert.Equal(t, "BTC-USDT", q.Symbol)
	assert.Equal(t, "1h", q.Timeframe)
	assert.Equal(t, 500, q.Limit)
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		query  string
		field  string
		code   string
	}{
		{"bad symbol", "BTCUSDT", "", "symbol", "ERR_SYMBOL"},
		{"limit too small", "ETH-USDT", "?limit=5", "limit", "ERR_GTE"},
		{"unknown timeframe", "ETH/USDT:USDT", "?timeframe=2h", "timeframe", "ERR_ONEOF"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, verr := bind(t, tt.symbol, tt.query)
			errs, ok := verr.([]ValidationError)
			require.True(t, ok, "%T", verr)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}
