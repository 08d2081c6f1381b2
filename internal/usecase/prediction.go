package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"TradeLens/internal/domain/models"
	"TradeLens/internal/domain/repository"
	applogger "TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
	"TradeLens/pkg/util"
)

const publishTimeout = 5 * time.Second

// ComputeFunc produces a fresh forecast on a cache miss.
type ComputeFunc func(ctx context.Context) (models.Forecast, error)

// LockDurations maps a horizon onto its lock window.
type LockDurations interface {
	LockDuration(h models.Horizon) time.Duration
}

// PredictionService gates forecasts behind the time-lock store: one
// prediction per (instrument, horizon) per lock window.
type PredictionService struct {
	store     repository.PredictionStore
	locks     LockDurations
	publisher repository.PredictionPublisher
	history   repository.PredictionHistory
	group     singleflight.Group
	now       func() time.Time
	newID     func() string
	log       *applogger.Logger
	metrics   repository.Metrics
}

type PredictionOption func(*PredictionService)

// WithPublisher receives every freshly created record.
func WithPublisher(p repository.PredictionPublisher) PredictionOption {
	return func(s *PredictionService) { s.publisher = p }
}

func WithHistory(h repository.PredictionHistory) PredictionOption {
	return func(s *PredictionService) { s.history = h }
}

func WithClock(now func() time.Time) PredictionOption {
	return func(s *PredictionService) { s.now = now }
}

func WithIDGenerator(f func() string) PredictionOption {
	return func(s *PredictionService) { s.newID = f }
}

func WithPredictionLogger(l *applogger.Logger) PredictionOption {
	return func(s *PredictionService) { s.log = l }
}

func WithPredictionMetrics(m repository.Metrics) PredictionOption {
	return func(s *PredictionService) { s.metrics = m }
}

func NewPredictionService(store repository.PredictionStore, locks LockDurations, opts ...PredictionOption) *PredictionService {
	s := &PredictionService{
		store:   store,
		locks:   locks,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     applogger.Nop(),
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreatePrediction returns the locked prediction for (instrument, h),
// computing and storing one when none is active. Concurrent misses for the
// same key share one computation in-process, and the store's atomic create
// settles races between processes. price refreshes current_price on the
// returned copy only.
func (s *PredictionService) GetOrCreatePrediction(ctx context.Context, instrument string, h models.Horizon, price float64, compute ComputeFunc) (*models.PriceRangePrediction, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("unsupported horizon %q", h)
	}
	instrument = util.NormalizeSymbol(instrument)

	rec, err := s.store.Get(ctx, instrument, h)
	switch {
	case err == nil:
		s.metrics.RecordCacheResult(string(h), true)
		return s.annotate(rec, price), nil
	case !errors.Is(err, repository.ErrPredictionNotFound):
		s.metrics.RecordError("prediction_store")
		return nil, fmt.Errorf("get prediction %s %s: %w", instrument, h, err)
	}
	s.metrics.RecordCacheResult(string(h), false)

	key := instrument + "|" + string(h)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		// detached so one caller giving up does not fail the others
		return s.create(context.WithoutCancel(ctx), instrument, h, compute)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return s.annotate(res.Val.(*models.PredictionRecord), price), nil
	}
}

func (s *PredictionService) create(ctx context.Context, instrument string, h models.Horizon, compute ComputeFunc) (*models.PredictionRecord, error) {
	// another flight may have committed between our miss and this call
	if rec, err := s.store.Get(ctx, instrument, h); err == nil {
		return rec, nil
	}

	start := time.Now()
	forecast, err := compute(ctx)
	if err != nil {
		s.metrics.RecordError("compute_prediction")
		return nil, fmt.Errorf("compute prediction %s %s: %w", instrument, h, err)
	}
	s.metrics.RecordLatency("compute_prediction", time.Since(start).Seconds())

	now := s.now()
	lock := s.locks.LockDuration(h)
	pred := forecast.Prediction
	pred.Timeframe = h
	pred.CreatedAt = now
	pred.ExpiresAt = now.Add(lock)
	pred.TimeRemaining = util.FormatRemaining(lock)
	pred.IsLocked = true

	rec := &models.PredictionRecord{
		ID:         s.newID(),
		Instrument: instrument,
		Horizon:    h,
		CreatedAt:  now,
		ExpiresAt:  pred.ExpiresAt,
		Prediction: pred,
	}
	stored, created, err := s.store.Create(ctx, rec)
	if err != nil {
		s.metrics.RecordError("prediction_store")
		return nil, fmt.Errorf("store prediction %s %s: %w", instrument, h, err)
	}
	if !created {
		s.log.Debug("prediction race lost, using stored record",
			applogger.String("instrument", instrument),
			applogger.String("horizon", string(h)),
			applogger.String("id", stored.ID))
		return stored, nil
	}

	s.metrics.RecordPredictionCreated(instrument, string(h))
	s.log.Info("prediction locked",
		applogger.String("instrument", instrument),
		applogger.String("horizon", string(h)),
		applogger.String("id", stored.ID),
		applogger.Float64("target", pred.PredictedTarget),
		applogger.String("direction", string(pred.Direction)),
		applogger.Duration("lock", lock))
	s.publish(ctx, stored)
	return stored, nil
}

// publish failures never fail the request: the lock is already committed.
func (s *PredictionService) publish(ctx context.Context, rec *models.PredictionRecord) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishPrediction(ctx, rec); err != nil {
		s.metrics.RecordError("publish_prediction")
		s.log.Warn("prediction publish failed",
			applogger.String("id", rec.ID),
			applogger.Error(err))
	}
}

// annotate returns a copy of the stored prediction with the live fields set.
func (s *PredictionService) annotate(rec *models.PredictionRecord, price float64) *models.PriceRangePrediction {
	p := rec.Prediction
	if price > 0 {
		p.CurrentPrice = price
	}
	p.CreatedAt = rec.CreatedAt
	p.ExpiresAt = rec.ExpiresAt
	p.TimeRemaining = util.FormatRemaining(rec.ExpiresAt.Sub(s.now()))
	p.IsLocked = true
	return &p
}

// Status lists the active prediction of every horizon; inactive horizons map to nil.
func (s *PredictionService) Status(ctx context.Context, instrument string, price float64) (*models.PredictionStatus, error) {
	instrument = util.NormalizeSymbol(instrument)
	out := &models.PredictionStatus{
		Instrument:  instrument,
		Predictions: make(map[models.Horizon]*models.PriceRangePrediction, len(models.Horizons)),
	}
	for _, h := range models.Horizons {
		rec, err := s.store.Get(ctx, instrument, h)
		switch {
		case err == nil:
			out.Predictions[h] = s.annotate(rec, price)
		case errors.Is(err, repository.ErrPredictionNotFound):
			out.Predictions[h] = nil
		default:
			return nil, fmt.Errorf("prediction status %s %s: %w", instrument, h, err)
		}
	}
	return out, nil
}

// Clear unlocks one horizon, every horizon of instrument (empty h), or
// everything (empty instrument).
func (s *PredictionService) Clear(ctx context.Context, instrument string, h models.Horizon) error {
	if h != "" && !h.Valid() {
		return fmt.Errorf("unsupported horizon %q", h)
	}
	if instrument != "" {
		instrument = util.NormalizeSymbol(instrument)
	}
	if err := s.store.Clear(ctx, instrument, h); err != nil {
		return fmt.Errorf("clear predictions: %w", err)
	}
	s.log.Info("predictions cleared",
		applogger.String("instrument", instrument),
		applogger.String("horizon", string(h)))
	return nil
}

// History lists previously issued predictions, newest first.
func (s *PredictionService) History(ctx context.Context, instrument string, h models.Horizon, from, to time.Time, limit int) ([]models.PredictionRecord, error) {
	if s.history == nil {
		return nil, repository.ErrHistoryDisabled
	}
	return s.history.ListPredictions(ctx, util.NormalizeSymbol(instrument), h, from, to, limit)
}
