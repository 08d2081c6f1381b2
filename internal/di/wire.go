//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"TradeLens/internal/usecase"
	"TradeLens/pkg/config"
	"TradeLens/pkg/server"
)

var coreSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,

	// Infrastructure clients
	ProvideRedisCache,
	ProvideCache,
	ProvideClickHouseClient,
	ProvideKafkaProducer,
	ProvideBinanceClient,

	// Repositories
	ProvideCandleStore,
	ProvidePredictionHistory,
	ProvidePublisher,
	ProvideMarketData,

	// Services and use cases
	ProvidePredictorConfig,
	ProvidePredictor,
	ProvidePredictionService,
	ProvideAnalysisUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		coreSet,

		// Transport
		ProvideHandlers,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAnalysis wires the use cases without the HTTP layer, for CLI commands.
func InitializeAnalysis(cfg *config.Config) (*usecase.AnalysisUseCase, func(), error) {
	wire.Build(coreSet)
	return nil, nil, nil
}
