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
	"TradeLens/pkg/util"
)

const (
	predictionPrefix = "prediction"
	createAttempts   = 3
)

// PredictionKeyPrefix prefixes every prediction slot key. An in-process cache
// backing the store must not evict these keys inside their lock window.
const PredictionKeyPrefix = predictionPrefix + ":"

// CachePredictionStore keeps one locked prediction per (instrument, horizon)
// in a cache.Service. Atomicity of Create comes from SetNX.
type CachePredictionStore struct {
	cache cache.Service
	now   func() time.Time
	log   *logger.Logger
}

var _ domrepo.PredictionStore = (*CachePredictionStore)(nil)

// StoreOption configures CachePredictionStore.
type StoreOption func(*CachePredictionStore)

// WithStoreClock overrides the time source used for expiry checks.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *CachePredictionStore) {
		s.now = now
	}
}

// WithStoreLogger sets the logger for malformed entries.
func WithStoreLogger(l *logger.Logger) StoreOption {
	return func(s *CachePredictionStore) {
		s.log = l
	}
}

// NewCachePredictionStore creates a store over c. When c is a
// cache.MemoryCache it should pin PredictionKeyPrefix.
func NewCachePredictionStore(c cache.Service, opts ...StoreOption) *CachePredictionStore {
	s := &CachePredictionStore{
		cache: c,
		now:   time.Now,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PredictionKey is the storage key of one (instrument, horizon) slot.
func PredictionKey(instrument string, h models.Horizon) string {
	return cache.GenerateKeyWithParams(predictionPrefix, util.SafeSymbol(instrument), h)
}

// Get returns the active prediction for the slot. Expired, malformed and
// mismatched entries are deleted and reported as ErrPredictionNotFound.
func (s *CachePredictionStore) Get(ctx context.Context, instrument string, h models.Horizon) (*models.PredictionRecord, error) {
	key := PredictionKey(instrument, h)

	var rec models.PredictionRecord
	err := s.cache.Get(ctx, key, &rec)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		return nil, domrepo.ErrPredictionNotFound
	case errors.Is(err, cache.ErrDecode):
		s.discard(ctx, key, "undecodable prediction entry", err)
		return nil, domrepo.ErrPredictionNotFound
	case err != nil:
		return nil, fmt.Errorf("get prediction %s: %w", key, err)
	}

	if rec.ExpiresAt.IsZero() || rec.Horizon != h {
		s.discard(ctx, key, "incomplete prediction entry", nil)
		return nil, domrepo.ErrPredictionNotFound
	}
	if !rec.Active(s.now()) {
		_ = s.cache.Delete(ctx, key)
		return nil, domrepo.ErrPredictionNotFound
	}
	return &rec, nil
}

// Create stores rec unless the slot is already occupied. It returns the
// record now held by the slot and whether rec was the one written.
func (s *CachePredictionStore) Create(ctx context.Context, rec *models.PredictionRecord) (*models.PredictionRecord, bool, error) {
	key := PredictionKey(rec.Instrument, rec.Horizon)

	for attempt := 0; attempt < createAttempts; attempt++ {
		ttl := rec.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil, false, fmt.Errorf("create prediction %s: record already expired", key)
		}

		ok, err := s.cache.SetNX(ctx, key, rec, ttl)
		if err != nil {
			return nil, false, fmt.Errorf("create prediction %s: %w", key, err)
		}
		if ok {
			return rec, true, nil
		}

		existing, err := s.Get(ctx, rec.Instrument, rec.Horizon)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, domrepo.ErrPredictionNotFound) {
			return nil, false, err
		}
		// the occupant expired or was discarded between SetNX and Get
	}
	return nil, false, fmt.Errorf("create prediction %s: slot contended", key)
}

// Clear removes one slot, every horizon of an instrument (h empty), or every
// prediction (instrument empty).
func (s *CachePredictionStore) Clear(ctx context.Context, instrument string, h models.Horizon) error {
	switch {
	case instrument == "":
		return s.cache.DeleteByPattern(ctx, cache.BuildPattern(PredictionKeyPrefix))
	case h == "":
		return s.cache.DeleteByPattern(ctx, cache.BuildPattern(cache.GenerateKey(predictionPrefix, util.SafeSymbol(instrument))+":"))
	default:
		return s.cache.Delete(ctx, PredictionKey(instrument, h))
	}
}

func (s *CachePredictionStore) discard(ctx context.Context, key, msg string, cause error) {
	fields := []logger.Field{logger.String("key", key)}
	if cause != nil {
		fields = append(fields, logger.Error(cause))
	}
	s.log.Warn(msg, fields...)
	_ = s.cache.Delete(ctx, key)
}
