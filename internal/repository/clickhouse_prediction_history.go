package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	pkgch "TradeLens/pkg/clickhouse"
	applogger "TradeLens/pkg/logger"
)

// CHPredictionHistory appends every issued prediction to ClickHouse.
type CHPredictionHistory struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var (
	_ domrepo.PredictionHistory   = (*CHPredictionHistory)(nil)
	_ domrepo.PredictionPublisher = (*CHPredictionHistory)(nil)
)

func NewCHPredictionHistory(ch *pkgch.Client, database string, l *applogger.Logger) *CHPredictionHistory {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHPredictionHistory{db: ch.DB(), table: database + "." + predictionTable, l: l}
}

// PublishPrediction appends rec.
func (h *CHPredictionHistory) PublishPrediction(ctx context.Context, rec *models.PredictionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}
	p := rec.Prediction
	q := fmt.Sprintf(`INSERT INTO %s (id, instrument, horizon, created_at, expires_at,
		price_at_prediction, predicted_low, predicted_high, predicted_target,
		direction, confidence, reasoning, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, h.table)
	_, err = h.db.ExecContext(ctx, q,
		rec.ID, rec.Instrument, string(rec.Horizon), rec.CreatedAt.UTC(), rec.ExpiresAt.UTC(),
		p.PriceAtPrediction, p.PredictedLow, p.PredictedHigh, p.PredictedTarget,
		string(p.Direction), string(p.Confidence), p.Reasoning, string(payload),
	)
	if err != nil {
		h.l.Error("clickhouse prediction insert error",
			applogger.String("instrument", rec.Instrument),
			applogger.String("horizon", string(rec.Horizon)),
			applogger.Error(err),
		)
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (h *CHPredictionHistory) ListPredictions(ctx context.Context, instrument string, horizon models.Horizon, from, to time.Time, limit int) ([]models.PredictionRecord, error) {
	q, args := buildHistoryQuery(h.table, instrument, horizon, from, to, limit)
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionRecord, 0, limit)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		var rec models.PredictionRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			h.l.Warn("skipping undecodable prediction row", applogger.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close is a no-op; the pool belongs to pkg/clickhouse.
func (h *CHPredictionHistory) Close() error { return nil }

func buildHistoryQuery(table, instrument string, horizon models.Horizon, from, to time.Time, limit int) (string, []interface{}) {
	where := []string{"instrument = ?"}
	args := []interface{}{instrument}
	if horizon != "" {
		where = append(where, "horizon = ?")
		args = append(args, string(horizon))
	}
	if !from.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, to.UTC())
	}
	args = append(args, limit)
	q := fmt.Sprintf("SELECT payload FROM %s WHERE %s ORDER BY created_at DESC LIMIT ?",
		table, strings.Join(where, " AND "))
	return q, args
}
