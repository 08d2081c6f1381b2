package models

// Requests for analysis HTTP endpoints. Symbols arrive in path form (BTC-USDT).

type AnalysisRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,symbol"`
}

type StructureRequest struct {
	Symbol    string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h" validate:"oneof=5m 15m 30m 1h 4h 1d"`
	Limit     int    `query:"limit" json:"limit" default:"500" validate:"gte=20,lte=1000"`
}

type IndicatorsRequest struct {
	Symbol    string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h" validate:"oneof=5m 15m 30m 1h 4h 1d"`
	Limit     int    `query:"limit" json:"limit" default:"500" validate:"gte=20,lte=1000"`
}

type PredictRequest struct {
	Symbol  string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Horizon string `query:"horizon" json:"horizon" default:"1h" validate:"oneof=1h 1d 1w"`
}

type ClearPredictionsRequest struct {
	Symbol  string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Horizon string `query:"horizon" json:"horizon" validate:"omitempty,oneof=1h 1d 1w"`
}

type PredictionHistoryRequest struct {
	Symbol  string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Horizon string `query:"horizon" json:"horizon" validate:"omitempty,oneof=1h 1d 1w"`
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
	Limit   int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type FibonacciRequest struct {
	Symbol    string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"4h" validate:"oneof=5m 15m 30m 1h 4h 1d"`
	Lookback  int    `query:"lookback" json:"lookback" default:"100" validate:"gte=20,lte=500"`
}

type OHLCVRequest struct {
	Symbol    string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h" validate:"oneof=5m 15m 30m 1h 4h 1d"`
	Limit     int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=1000"`
}
