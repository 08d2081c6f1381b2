package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"TradeLens/internal/domain/models"
	"TradeLens/internal/domain/repository"
	"TradeLens/internal/domain/service"
	"TradeLens/internal/services/indicators"
	applogger "TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
	"TradeLens/pkg/util"
)

const defaultCandleLimit = 500

// smcPriority picks the series the smart-money extractors read.
var smcPriority = []models.Timeframe{models.TF1h, models.TF4h}

// AnalysisUseCase runs the multi-timeframe analysis and feeds the predictor.
type AnalysisUseCase struct {
	market      repository.CandleSource
	indicators  service.IndicatorCalculator
	detector    service.StructureDetector
	predictor   service.Predictor
	predictions *PredictionService
	candleLimit int
	timeout     time.Duration
	now         func() time.Time
	log         *applogger.Logger
	metrics     repository.Metrics
}

type AnalysisOption func(*AnalysisUseCase)

func WithCandleLimit(n int) AnalysisOption {
	return func(u *AnalysisUseCase) { u.candleLimit = n }
}

// WithAnalysisTimeout bounds the multi-timeframe fetch.
func WithAnalysisTimeout(d time.Duration) AnalysisOption {
	return func(u *AnalysisUseCase) { u.timeout = d }
}

func WithAnalysisClock(now func() time.Time) AnalysisOption {
	return func(u *AnalysisUseCase) { u.now = now }
}

func WithAnalysisLogger(l *applogger.Logger) AnalysisOption {
	return func(u *AnalysisUseCase) { u.log = l }
}

func WithAnalysisMetrics(m repository.Metrics) AnalysisOption {
	return func(u *AnalysisUseCase) { u.metrics = m }
}

func NewAnalysisUseCase(
	market repository.CandleSource,
	ind service.IndicatorCalculator,
	detector service.StructureDetector,
	pred service.Predictor,
	predictions *PredictionService,
	opts ...AnalysisOption,
) *AnalysisUseCase {
	u := &AnalysisUseCase{
		market:      market,
		indicators:  ind,
		detector:    detector,
		predictor:   pred,
		predictions: predictions,
		candleLimit: defaultCandleLimit,
		now:         time.Now,
		log:         applogger.Nop(),
		metrics:     metrics.Nop{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Snapshot fetches every analysis timeframe concurrently and derives the
// per-timeframe indicators, structure and bias. Timeframes that fail to load
// are skipped; the snapshot fails only when none loads or the price is unknown.
func (u *AnalysisUseCase) Snapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	symbol = util.NormalizeSymbol(symbol)
	start := time.Now()
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	series := make([][]models.Candle, len(models.AnalysisTimeframes))
	errs := make([]error, len(models.AnalysisTimeframes))
	var price float64

	g, gctx := errgroup.WithContext(ctx)
	for i, tf := range models.AnalysisTimeframes {
		i, tf := i, tf
		g.Go(func() error {
			cs, err := u.market.GetCandles(gctx, symbol, tf, u.candleLimit)
			if errors.Is(err, repository.ErrUnknownSymbol) {
				return err
			}
			series[i], errs[i] = cs, err
			return nil
		})
	}
	g.Go(func() error {
		p, err := u.market.GetPrice(gctx, symbol)
		if err != nil {
			return fmt.Errorf("price %s: %w", symbol, err)
		}
		price = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &models.MarketSnapshot{
		Symbol:       symbol,
		CurrentPrice: price,
		Candles:      make(map[models.Timeframe][]models.Candle),
		Indicators:   make(map[models.Timeframe]models.IndicatorBundle),
		Structures:   make(map[models.Timeframe]models.MarketStructure),
	}
	var levels []models.PriceLevel
	for i, tf := range models.AnalysisTimeframes {
		if errs[i] != nil || len(series[i]) == 0 {
			if errs[i] != nil {
				u.log.Warn("timeframe skipped",
					applogger.String("symbol", symbol),
					applogger.String("tf", string(tf)),
					applogger.Error(errs[i]))
			}
			continue
		}
		cs := series[i]
		ind := u.indicators.Compute(cs)
		ms := u.detector.AnalyzeStructure(cs)
		snap.Candles[tf] = cs
		snap.Indicators[tf] = ind
		snap.Structures[tf] = ms
		snap.Biases = append(snap.Biases, timeframeBias(tf, cs, ind, ms))
		levels = append(levels, u.detector.FindSupportResistance(cs)...)
	}
	if len(snap.Candles) == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", symbol, errors.Join(append(errs, repository.ErrNoCandles)...))
	}

	snap.KeyLevels = keyLevels(levels, price)
	snap.SmartMoney = u.smartMoney(snap)
	u.metrics.RecordLatency("snapshot", time.Since(start).Seconds())
	return snap, nil
}

func (u *AnalysisUseCase) smartMoney(snap *models.MarketSnapshot) models.SmartMoney {
	order := append(append([]models.Timeframe{}, smcPriority...), models.AnalysisTimeframes...)
	for _, tf := range order {
		cs := snap.Candles[tf]
		if len(cs) == 0 {
			continue
		}
		return models.SmartMoney{
			OrderBlocks:       u.detector.FindOrderBlocks(cs, string(tf)),
			FairValueGaps:     u.detector.FindFairValueGaps(cs),
			LiquidityZones:    u.detector.FindLiquidityZones(cs),
			SupplyDemandZones: u.detector.FindSupplyDemandZones(cs),
		}
	}
	return models.SmartMoney{}
}

// Analyze builds the full multi-timeframe report including the locked
// predictions of every horizon.
func (u *AnalysisUseCase) Analyze(ctx context.Context, symbol string) (*models.FullAnalysis, error) {
	snap, err := u.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	mctx := marketContext(snap)
	summary := mtfSummary(snap.Biases)
	level, reasoning := assessConfidence(snap.Biases, summary, mctx)

	out := &models.FullAnalysis{
		Symbol:              snap.Symbol,
		GeneratedAt:         u.now().UTC(),
		CurrentPrice:        snap.CurrentPrice,
		MarketContext:       mctx,
		MTFSummary:          summary,
		TimeframeBiases:     snap.Biases,
		Indicators:          snap.Indicators,
		MarketStructure:     snap.Structures,
		KeyLevels:           snap.KeyLevels,
		OrderBlocks:         snap.SmartMoney.OrderBlocks,
		FairValueGaps:       snap.SmartMoney.FairValueGaps,
		LiquidityZones:      snap.SmartMoney.LiquidityZones,
		SupplyDemandZones:   snap.SmartMoney.SupplyDemandZones,
		EMAAlignment:        make(map[models.Timeframe]string, len(snap.Indicators)),
		NextHourOutlook:     hourOutlook(snap.Biases, snap.KeyLevels, mctx),
		NextDayOutlook:      dayOutlook(snap.Biases, snap.KeyLevels, mctx),
		Predictions:         make(map[models.Horizon]models.PriceRangePrediction, len(models.Horizons)),
		Confidence:          level,
		ConfidenceReasoning: reasoning,
	}
	for tf, ind := range snap.Indicators {
		out.EMAAlignment[tf] = indicators.EMAAlignment(ind.MovingAverages)
	}

	for _, h := range models.Horizons {
		p, err := u.predictions.GetOrCreatePrediction(ctx, snap.Symbol, h, snap.CurrentPrice, u.computeFrom(h, snap))
		if err != nil {
			return nil, err
		}
		out.Predictions[h] = *p
	}
	return out, nil
}

// Predict returns the locked prediction for one horizon. The snapshot is
// only fetched when no prediction is active.
func (u *AnalysisUseCase) Predict(ctx context.Context, symbol string, h models.Horizon) (*models.PriceRangePrediction, error) {
	symbol = util.NormalizeSymbol(symbol)
	price, err := u.market.GetPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("price %s: %w", symbol, err)
	}
	return u.predictions.GetOrCreatePrediction(ctx, symbol, h, price, func(ctx context.Context) (models.Forecast, error) {
		snap, err := u.Snapshot(ctx, symbol)
		if err != nil {
			return models.Forecast{}, err
		}
		return u.predictor.Predict(h, snap), nil
	})
}

// PredictionStatus lists the active predictions of symbol.
func (u *AnalysisUseCase) PredictionStatus(ctx context.Context, symbol string) (*models.PredictionStatus, error) {
	symbol = util.NormalizeSymbol(symbol)
	price, err := u.market.GetPrice(ctx, symbol)
	if err != nil {
		u.log.Warn("status without live price", applogger.String("symbol", symbol), applogger.Error(err))
		price = 0
	}
	return u.predictions.Status(ctx, symbol, price)
}

func (u *AnalysisUseCase) computeFrom(h models.Horizon, snap *models.MarketSnapshot) ComputeFunc {
	return func(context.Context) (models.Forecast, error) {
		return u.predictor.Predict(h, snap), nil
	}
}

// Structure analyzes one timeframe: swing structure, levels and smart money.
func (u *AnalysisUseCase) Structure(ctx context.Context, symbol string, tf models.Timeframe, limit int) (*models.StructureReport, error) {
	symbol = util.NormalizeSymbol(symbol)
	cs, err := u.market.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}
	return &models.StructureReport{
		Symbol:    symbol,
		Timeframe: tf,
		Structure: u.detector.AnalyzeStructure(cs),
		Levels:    u.detector.FindSupportResistance(cs),
		SmartMoney: models.SmartMoney{
			OrderBlocks:       u.detector.FindOrderBlocks(cs, string(tf)),
			FairValueGaps:     u.detector.FindFairValueGaps(cs),
			LiquidityZones:    u.detector.FindLiquidityZones(cs),
			SupplyDemandZones: u.detector.FindSupplyDemandZones(cs),
		},
	}, nil
}

func (u *AnalysisUseCase) Indicators(ctx context.Context, symbol string, tf models.Timeframe, limit int) (*models.IndicatorsReport, error) {
	symbol = util.NormalizeSymbol(symbol)
	cs, err := u.market.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}
	ind := u.indicators.Compute(cs)
	rep := &models.IndicatorsReport{
		Symbol:       symbol,
		Timeframe:    tf,
		Indicators:   ind,
		EMAAlignment: indicators.EMAAlignment(ind.MovingAverages),
	}
	if len(cs) > 0 {
		rep.CurrentPrice = cs[len(cs)-1].Close
	}
	return rep, nil
}

// Fibonacci measures retracements over the last lookback candles of tf.
func (u *AnalysisUseCase) Fibonacci(ctx context.Context, symbol string, tf models.Timeframe, lookback int) (*models.FibonacciReport, error) {
	symbol = util.NormalizeSymbol(symbol)
	cs, err := u.market.GetCandles(ctx, symbol, tf, max(lookback, u.candleLimit))
	if err != nil {
		return nil, err
	}
	levels, ok := indicators.FibonacciLevels(cs, lookback)
	if !ok {
		return nil, fmt.Errorf("fibonacci %s %s: %w", symbol, tf, repository.ErrNoCandles)
	}
	return &models.FibonacciReport{
		Symbol:       symbol,
		Timeframe:    tf,
		Lookback:     lookback,
		CurrentPrice: cs[len(cs)-1].Close,
		Levels:       levels,
	}, nil
}

// Ticker returns the latest price of symbol.
func (u *AnalysisUseCase) Ticker(ctx context.Context, symbol string) (*models.Ticker, error) {
	symbol = util.NormalizeSymbol(symbol)
	price, err := u.market.GetPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &models.Ticker{Symbol: symbol, Price: price, Timestamp: u.now().UTC()}, nil
}

// Candles returns raw OHLCV rows, oldest first.
func (u *AnalysisUseCase) Candles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	return u.market.GetCandles(ctx, util.NormalizeSymbol(symbol), tf, limit)
}

// Predictions exposes the time-lock gate to the transport layer.
func (u *AnalysisUseCase) Predictions() *PredictionService { return u.predictions }
