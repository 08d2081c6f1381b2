package repository

import "errors"

var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrNoCandles          = errors.New("no candles available")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrHistoryDisabled    = errors.New("prediction history is not configured")
)
