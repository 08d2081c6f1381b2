package repository

import "TradeLens/internal/domain/models"

// IsValidTimeframe returns true if tf is a supported analysis timeframe.
func IsValidTimeframe(tf models.Timeframe) bool {
	for _, v := range models.AnalysisTimeframes {
		if v == tf {
			return true
		}
	}
	return false
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() models.Timeframe { return models.TF1h }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) models.Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := models.Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// NormalizeHorizon converts raw string to a horizon, defaulting to 1h.
func NormalizeHorizon(s string) models.Horizon {
	h := models.Horizon(s)
	if h.Valid() {
		return h
	}
	return models.Horizon1h
}
