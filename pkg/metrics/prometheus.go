package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"TradeLens/internal/domain/repository"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictionsCreated *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	estimators         *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec
	lastPrice          *prometheus.GaugeVec
	latency            *prometheus.HistogramVec
}

var _ repository.Metrics = (*Recorder)(nil)

// New creates a Prometheus metrics recorder registered on reg.
// A nil reg registers on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		predictionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradelens_predictions_created_total",
				Help: "Predictions computed and locked, per symbol and horizon",
			},
			[]string{"symbol", "horizon"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradelens_prediction_cache_lookups_total",
				Help: "Prediction store lookups by result",
			},
			[]string{"horizon", "hit"},
		),
		estimators: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradelens_estimator_results_total",
				Help: "Estimator outcomes: emitted, abstained or failed",
			},
			[]string{"method", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradelens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradelens_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradelens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPredictionCreated counts a freshly locked prediction.
func (r *Recorder) RecordPredictionCreated(symbol, horizon string) {
	r.predictionsCreated.WithLabelValues(symbol, horizon).Inc()
}

// RecordCacheResult counts a prediction store lookup.
func (r *Recorder) RecordCacheResult(horizon string, hit bool) {
	r.cacheLookups.WithLabelValues(horizon, strconv.FormatBool(hit)).Inc()
}

// RecordEstimator counts one estimator outcome.
func (r *Recorder) RecordEstimator(method, outcome string) {
	r.estimators.WithLabelValues(method, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

var _ repository.Metrics = Nop{}

func (Nop) RecordPredictionCreated(string, string) {}
func (Nop) RecordCacheResult(string, bool)         {}
func (Nop) RecordEstimator(string, string)         {}
func (Nop) RecordError(string)                     {}
func (Nop) RecordLastPrice(string, float64)        {}
func (Nop) RecordLatency(string, float64)          {}
