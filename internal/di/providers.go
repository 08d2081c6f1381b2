package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"TradeLens/internal/domain/repository"
	"TradeLens/internal/handler/api"
	internalrepo "TradeLens/internal/repository"
	"TradeLens/internal/service/binance"
	"TradeLens/internal/service/ratelimit"
	"TradeLens/internal/services/indicators"
	"TradeLens/internal/services/predictor"
	"TradeLens/internal/services/structure"
	"TradeLens/internal/usecase"
	"TradeLens/pkg/cache"
	pkgch "TradeLens/pkg/clickhouse"
	"TradeLens/pkg/config"
	xhttp "TradeLens/pkg/http"
	pkgkafka "TradeLens/pkg/kafka"
	applogger "TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
	"TradeLens/pkg/server"
)

// ProvideLogger builds the zerolog-backed application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRegistry creates the process-wide Prometheus registry.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(reg)
}

// ProvideRedisCache connects to Redis when it is the configured driver.
// The client is closed through the layered cache built on top of it.
func ProvideRedisCache(cfg *config.Config, l *applogger.Logger) (*cache.RedisCache, error) {
	if cfg.Cache.Driver != "redis" {
		return nil, nil
	}
	r := cfg.Cache.Redis
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(r.Host),
		cache.WithRedisPort(r.Port),
		cache.WithRedisPassword(r.Password),
		cache.WithRedisDB(r.DB),
		cache.WithRedisPool(r.PoolSize, r.MinIdleConns, r.PoolTimeout),
		cache.WithRedisPrefix(r.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", applogger.String("addr", fmt.Sprintf("%s:%d", r.Host, r.Port)))
	return rc, nil
}

// ProvideCache fronts Redis with an in-process layer, or runs memory-only.
func ProvideCache(cfg *config.Config, rc *cache.RedisCache, l *applogger.Logger) (cache.Service, func()) {
	var c cache.Service
	if rc != nil {
		c = cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cfg.Exchange.TickerTTL),
		)
	} else {
		c = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
			cache.WithMemoryPinned(internalrepo.PredictionKeyPrefix),
		)
	}
	return c, func() {
		if err := c.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
}

// ProvideClickHouseClient connects and applies the schema when enabled.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	ch := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(ch.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse ready",
		applogger.String("host", ch.Host),
		applogger.String("database", ch.Database))

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

func ProvideCandleStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) repository.CandleStore {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHCandleStore(ch, cfg.ClickHouse.Database, l)
}

func ProvidePredictionHistory(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) *internalrepo.CHPredictionHistory {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHPredictionHistory(ch, cfg.ClickHouse.Database, l)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	k := cfg.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithDelivery(k.RequiredAcks, k.Compression, k.Producer.MaxAttempts),
		pkgkafka.WithBatching(k.Producer.BatchSize, k.Producer.BatchBytes, k.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher fans new predictions out to Kafka and ClickHouse,
// whichever are enabled. Its cleanup flushes the Kafka producer.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer, hist *internalrepo.CHPredictionHistory, l *applogger.Logger) (repository.PredictionPublisher, func()) {
	var sinks internalrepo.MultiPublisher
	if producer != nil {
		sinks = append(sinks, internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic))
	}
	if hist != nil {
		sinks = append(sinks, hist)
	}
	if len(sinks) == 0 {
		return nil, func() {}
	}
	return sinks, func() {
		if err := sinks.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}
}

func ProvideBinanceClient(cfg *config.Config, l *applogger.Logger) *binance.Client {
	ex := cfg.Exchange
	return binance.New(l,
		binance.WithBaseURL(ex.BaseURL),
		binance.WithTimeout(ex.Timeout),
		binance.WithRateLimit(ex.RPS, ex.Burst),
		binance.WithBreaker(ex.Breaker.MaxRequests, ex.Breaker.FailureThreshold, ex.Breaker.Interval, ex.Breaker.Timeout),
	)
}

// ProvideMarketData puts the cache and optional candle store in front of Binance.
func ProvideMarketData(
	cfg *config.Config,
	client *binance.Client,
	c cache.Service,
	store repository.CandleStore,
	l *applogger.Logger,
	m repository.Metrics,
) repository.CandleSource {
	opts := []internalrepo.MarketDataOption{
		internalrepo.WithTTLs(cfg.Exchange.CandleTTL, cfg.Exchange.TickerTTL),
		internalrepo.WithMarketLogger(l),
		internalrepo.WithMarketMetrics(m),
	}
	if store != nil {
		opts = append(opts, internalrepo.WithCandleStore(store))
	}
	return internalrepo.NewMarketData(client, c, opts...)
}

func ProvidePredictorConfig(cfg *config.Config) (*predictor.Config, error) {
	pcfg := predictor.DefaultConfig()
	if err := pcfg.OverrideWeights(cfg.Predictor.Weights); err != nil {
		return nil, fmt.Errorf("predictor weights: %w", err)
	}
	return pcfg, nil
}

func ProvidePredictor(pcfg *predictor.Config, l *applogger.Logger, m repository.Metrics) *predictor.Predictor {
	return predictor.New(pcfg, predictor.WithLogger(l), predictor.WithMetrics(m))
}

// ProvidePredictionService builds the time-lock gate over the shared cache.
func ProvidePredictionService(
	c cache.Service,
	pcfg *predictor.Config,
	pub repository.PredictionPublisher,
	hist *internalrepo.CHPredictionHistory,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.PredictionService {
	store := internalrepo.NewCachePredictionStore(c, internalrepo.WithStoreLogger(l))
	opts := []usecase.PredictionOption{
		usecase.WithPredictionLogger(l),
		usecase.WithPredictionMetrics(m),
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	if hist != nil {
		opts = append(opts, usecase.WithHistory(hist))
	}
	return usecase.NewPredictionService(store, pcfg, opts...)
}

func ProvideAnalysisUseCase(
	cfg *config.Config,
	market repository.CandleSource,
	pred *predictor.Predictor,
	preds *usecase.PredictionService,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(market, indicators.New(), structure.New(), pred, preds,
		usecase.WithCandleLimit(cfg.Analysis.CandleLimit),
		usecase.WithAnalysisTimeout(cfg.Analysis.Timeout),
		usecase.WithAnalysisLogger(l),
		usecase.WithAnalysisMetrics(m),
	)
}

func ProvideHandlers(cfg *config.Config, l *applogger.Logger, uc *usecase.AnalysisUseCase) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewAnalysisEchoHandler(l, uc),
		api.NewStreamHandler(l, uc, api.StreamConfig{
			PushInterval:   cfg.WebSocket.PushInterval,
			TickerInterval: cfg.WebSocket.TickerInterval,
			WriteTimeout:   cfg.WebSocket.WriteTimeout,
		}),
	}
}

// ProvideHTTPServer assembles the echo server with middleware and probes.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	handlers []xhttp.Handler,
	rc *cache.RedisCache,
	ch *pkgch.Client,
) *xhttp.Server {
	s := cfg.Server
	opts := []xhttp.ServerOption{
		xhttp.WithPort(s.Port),
		xhttp.WithTimeouts(s.ReadTimeout, s.WriteTimeout, s.ShutdownTimeout),
		xhttp.WithCORS(true, s.CORSOrigins...),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg, reg))
	}
	if s.RateLimit.Enabled {
		opts = append(opts, xhttp.WithRateLimiter(ratelimit.New(s.RateLimit.RPS, s.RateLimit.Burst, 0)))
	}
	if rc != nil {
		opts = append(opts, xhttp.WithHealthCheck("redis", func(ctx context.Context) error {
			return rc.Client().Ping(ctx).Err()
		}))
	}
	if ch != nil {
		opts = append(opts, xhttp.WithHealthCheck("clickhouse", ch.Health))
	}
	return xhttp.NewServer(handlers, opts...)
}

func ProvideApp(l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(l, srv)
}
