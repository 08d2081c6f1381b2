package service

import (
	"TradeLens/internal/domain/models"
)

// IndicatorCalculator computes the indicator bundle of one candle window.
type IndicatorCalculator interface {
	Compute(candles []models.Candle) models.IndicatorBundle
}

// StructureDetector extracts swing structure and smart-money features.
type StructureDetector interface {
	AnalyzeStructure(candles []models.Candle) models.MarketStructure
	FindOrderBlocks(candles []models.Candle, timeframe string) []models.OrderBlock
	FindFairValueGaps(candles []models.Candle) []models.FairValueGap
	FindLiquidityZones(candles []models.Candle) []models.LiquidityZone
	FindSupplyDemandZones(candles []models.Candle) []models.SupplyDemandZone
	FindSupportResistance(candles []models.Candle) []models.PriceLevel
}

// Predictor turns a market snapshot into a consensus forecast for one horizon.
type Predictor interface {
	Predict(horizon models.Horizon, snapshot *models.MarketSnapshot) models.Forecast
}
