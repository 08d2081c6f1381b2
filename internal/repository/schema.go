package repository

import "fmt"

const (
	candleTable     = "candles"
	predictionTable = "prediction_history"
)

// Schema returns the idempotent DDL for the ClickHouse tables used here.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			symbol String,
			timeframe LowCardinality(String),
			ts DateTime64(3, 'UTC'),
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Float64
		) ENGINE = ReplacingMergeTree
		ORDER BY (symbol, timeframe, ts)`, database, candleTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			id String,
			instrument String,
			horizon LowCardinality(String),
			created_at DateTime64(3, 'UTC'),
			expires_at DateTime64(3, 'UTC'),
			price_at_prediction Float64,
			predicted_low Float64,
			predicted_high Float64,
			predicted_target Float64,
			direction LowCardinality(String),
			confidence LowCardinality(String),
			reasoning String,
			payload String
		) ENGINE = MergeTree
		ORDER BY (instrument, horizon, created_at)`, database, predictionTable),
	}
}
