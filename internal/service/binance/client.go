package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	xhttp "TradeLens/pkg/http"
	"TradeLens/pkg/logger"
	"TradeLens/pkg/util"
)

const maxKlines = 1000

// ErrUnknownSymbol is returned when Binance rejects the symbol (code -1121).
var ErrUnknownSymbol = fmt.Errorf("binance: %w", domrepo.ErrUnknownSymbol)

// Client reads klines and tickers from the Binance spot REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

var _ domrepo.CandleSource = (*Client)(nil)

// Config holds client settings.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	RPS              float64
	Burst            int
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
}

// Option configures Client.
type Option func(*Config)

func WithBaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRateLimit bounds outgoing requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Config) {
		c.RPS = rps
		c.Burst = burst
	}
}

// WithBreaker configures the circuit breaker: it opens after threshold
// consecutive failures and probes again after timeout.
func WithBreaker(maxRequests, threshold uint32, interval, timeout time.Duration) Option {
	return func(c *Config) {
		c.MaxRequests = maxRequests
		c.FailureThreshold = threshold
		c.Interval = interval
		c.BreakerTimeout = timeout
	}
}

func New(l *logger.Logger, opts ...Option) *Client {
	cfg := &Config{
		BaseURL:          "https://api.binance.com",
		Timeout:          10 * time.Second,
		RPS:              10,
		Burst:            20,
		MaxRequests:      3,
		Interval:         time.Minute,
		BreakerTimeout:   30 * time.Second,
		FailureThreshold: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if l == nil {
		l = logger.Nop()
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		log:     l,
	}
	threshold := cfg.FailureThreshold
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "binance",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// caller mistakes say nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownSymbol) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return c
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// GetCandles returns up to limit klines, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	if tf.Duration() == 0 {
		return nil, fmt.Errorf("binance: unsupported timeframe %q", tf)
	}
	limit = min(max(limit, 1), maxKlines)

	var raw [][]json.RawMessage
	err := c.call(ctx, "/api/v3/klines", map[string][]string{
		"symbol":   {util.ExchangeSymbol(symbol)},
		"interval": {string(tf)},
		"limit":    {strconv.Itoa(limit)},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("klines %s %s: %w", symbol, tf, err)
	}

	out := make([]models.Candle, 0, len(raw))
	for i, row := range raw {
		cndl, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("klines %s %s row %d: %w", symbol, tf, i, err)
		}
		out = append(out, cndl)
	}
	return out, nil
}

// GetPrice returns the last traded price.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	var t struct {
		Symbol string          `json:"symbol"`
		Price  decimal.Decimal `json:"price"`
	}
	err := c.call(ctx, "/api/v3/ticker/price", map[string][]string{
		"symbol": {util.ExchangeSymbol(symbol)},
	}, &t)
	if err != nil {
		return 0, fmt.Errorf("ticker %s: %w", symbol, err)
	}
	return t.Price.InexactFloat64(), nil
}

func (c *Client) call(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + path,
			QueryParams: query,
		}, dest)
		return nil, classify(err)
	})
	return err
}

// classify maps Binance's "invalid symbol" rejection onto ErrUnknownSymbol.
func classify(err error) error {
	var se *xhttp.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		return err
	}
	var ae apiError
	if json.Unmarshal(se.Body, &ae) == nil && ae.Code == -1121 {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, ae.Msg)
	}
	return err
}

// parseKline decodes [openTime, open, high, low, close, volume, ...].
func parseKline(row []json.RawMessage) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("short kline: %d fields", len(row))
	}
	var openTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}
	var vals [5]decimal.Decimal
	for i := range vals {
		if err := json.Unmarshal(row[i+1], &vals[i]); err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	return models.Candle{
		Timestamp: time.UnixMilli(openTime).UTC(),
		Open:      vals[0].InexactFloat64(),
		High:      vals[1].InexactFloat64(),
		Low:       vals[2].InexactFloat64(),
		Close:     vals[3].InexactFloat64(),
		Volume:    vals[4].InexactFloat64(),
	}, nil
}
