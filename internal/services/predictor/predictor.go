package predictor

import (
	"fmt"
	"math"
	"sync"
	"time"

	"TradeLens/internal/domain/models"
	"TradeLens/internal/domain/repository"
	domsvc "TradeLens/internal/domain/service"
	"TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
)

// Estimator outcomes reported to metrics.
const (
	OutcomeEmitted   = "emitted"
	OutcomeAbstained = "abstained"
	OutcomeFailed    = "failed"
)

// Predictor runs every estimator over a snapshot and combines the votes.
type Predictor struct {
	cfg     *Config
	log     *logger.Logger
	metrics repository.Metrics
}

var _ domsvc.Predictor = (*Predictor)(nil)

// Option configures Predictor.
type Option func(*Predictor)

// WithLogger sets the logger used for estimator failures.
func WithLogger(l *logger.Logger) Option {
	return func(p *Predictor) {
		p.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m repository.Metrics) Option {
	return func(p *Predictor) {
		p.metrics = m
	}
}

// New creates a Predictor. A nil cfg uses DefaultConfig.
func New(cfg *Config, opts ...Option) *Predictor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Predictor{
		cfg:     cfg,
		log:     logger.Nop(),
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config exposes the tuning table.
func (p *Predictor) Config() *Config { return p.cfg }

// Predict computes a fresh forecast. It never fails: with no usable signal it
// returns the fallback range.
func (p *Predictor) Predict(h models.Horizon, snapshot *models.MarketSnapshot) models.Forecast {
	start := time.Now()
	in := p.cfg.NewInput(h, snapshot)
	signals := p.Signals(in)
	c := p.cfg.Combine(signals, in.Price, h)

	pred := models.PriceRangePrediction{
		Timeframe:         h,
		CurrentPrice:      in.Price,
		PriceAtPrediction: in.Price,
		PredictedLow:      c.Low,
		PredictedHigh:     c.High,
		PredictedTarget:   c.Target,
		RangeSize:         round(c.High-c.Low, 2),
		Direction:         c.Direction,
		Confidence:        c.Level,
		Reasoning:         c.Reasoning,
	}
	if in.Price > 0 {
		pred.RangePercent = round((c.High-c.Low)/in.Price*100, 3)
	}

	p.metrics.RecordLatency("predict", time.Since(start).Seconds())
	return models.Forecast{
		Prediction:        pred,
		Signals:           signals,
		NumericConfidence: c.Confidence,
	}
}

// Signals evaluates every estimator concurrently. The result keeps the
// estimator order and omits abstentions.
func (p *Predictor) Signals(in *Input) []models.PredictionSignal {
	type slot struct {
		sig models.PredictionSignal
		ok  bool
	}
	slots := make([]slot, len(estimators))

	var wg sync.WaitGroup
	for i, e := range estimators {
		i, e := i, e
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, ok := p.run(e, in)
			slots[i] = slot{sig, ok}
		}()
	}
	wg.Wait()

	out := make([]models.PredictionSignal, 0, len(slots))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.sig)
		}
	}
	return out
}

// run evaluates one estimator, turning panics and non-finite targets into an
// abstention.
func (p *Predictor) run(e estimator, in *Input) (sig models.PredictionSignal, ok bool) {
	method := string(e.method)
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("estimator failed",
				logger.String("method", method),
				logger.String("horizon", string(in.Horizon)),
				logger.Any("panic", fmt.Sprint(r)))
			p.metrics.RecordEstimator(method, OutcomeFailed)
			sig, ok = models.PredictionSignal{}, false
		}
	}()

	params, known := p.cfg.Methods[e.method]
	weight := params.Weight[in.Class]
	if !known || weight <= 0 {
		p.metrics.RecordEstimator(method, OutcomeAbstained)
		return models.PredictionSignal{}, false
	}

	est, ok := e.fn(in)
	if !ok {
		p.metrics.RecordEstimator(method, OutcomeAbstained)
		return models.PredictionSignal{}, false
	}
	if math.IsNaN(est.target) || math.IsInf(est.target, 0) || math.IsNaN(est.penalty) {
		p.log.Warn("estimator produced non-finite target",
			logger.String("method", method),
			logger.String("horizon", string(in.Horizon)))
		p.metrics.RecordEstimator(method, OutcomeFailed)
		return models.PredictionSignal{}, false
	}

	p.metrics.RecordEstimator(method, OutcomeEmitted)
	return models.PredictionSignal{
		Method:     method,
		Target:     est.target,
		Confidence: params.confidence(in.Class, est.penalty),
		Weight:     weight,
		Rationale:  est.note,
	}, true
}
