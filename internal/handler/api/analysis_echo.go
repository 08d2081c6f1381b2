package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sony/gobreaker"

	models "TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	"TradeLens/internal/usecase"
	xhttp "TradeLens/pkg/http"
	xlogger "TradeLens/pkg/logger"
	"TradeLens/pkg/util"
)

// AnalysisEchoHandler serves the analysis, prediction and market routes.
type AnalysisEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.AnalysisUseCase
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, uc: uc}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	a := v1.Group("/analysis")
	a.GET("/full/:symbol", h.Full)
	a.GET("/structure/:symbol", h.Structure)
	a.GET("/indicators/:symbol", h.Indicators)
	a.GET("/fibonacci/:symbol", h.Fibonacci)
	a.GET("/predict/:symbol", h.Predict)
	a.GET("/predictions/:symbol", h.PredictionStatus)
	a.DELETE("/predictions/:symbol", h.ClearPredictions)
	a.GET("/predictions/:symbol/history", h.PredictionHistory)

	m := v1.Group("/market")
	m.GET("/ticker/:symbol", h.Ticker)
	m.GET("/ohlcv/:symbol", h.OHLCV)
}

func (h *AnalysisEchoHandler) Full(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Analyze(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "full analysis", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Structure(c echo.Context) error {
	req := &models.StructureRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	res, err := h.uc.Structure(c.Request().Context(), req.Symbol, tf, req.Limit)
	if err != nil {
		return h.fail(c, "structure", req.Symbol, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	res, err := h.uc.Indicators(c.Request().Context(), req.Symbol, tf, req.Limit)
	if err != nil {
		return h.fail(c, "indicators", req.Symbol, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Fibonacci(c echo.Context) error {
	req := &models.FibonacciRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	res, err := h.uc.Fibonacci(c.Request().Context(), req.Symbol, tf, req.Lookback)
	if err != nil {
		return h.fail(c, "fibonacci", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Predict(c.Request().Context(), req.Symbol, models.Horizon(req.Horizon))
	if err != nil {
		return h.fail(c, "predict", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) PredictionStatus(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.PredictionStatus(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "prediction status", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) ClearPredictions(c echo.Context) error {
	req := &models.ClearPredictionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.uc.Predictions().Clear(c.Request().Context(), req.Symbol, models.Horizon(req.Horizon)); err != nil {
		return h.fail(c, "clear predictions", req.Symbol, err)
	}
	scope := "all horizons"
	if req.Horizon != "" {
		scope = req.Horizon
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Predictions cleared for %s (%s)", util.NormalizeSymbol(req.Symbol), scope),
	})
}

func (h *AnalysisEchoHandler) PredictionHistory(c echo.Context) error {
	req := &models.PredictionHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	to := util.ParseTimeDefault(req.To, time.Now().UTC())
	from := util.ParseTimeDefault(req.From, to.Add(-30*24*time.Hour))
	if !from.Before(to) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("from must be before to"))
	}

	rows, err := h.uc.Predictions().History(c.Request().Context(), req.Symbol, models.Horizon(req.Horizon), from, to, req.Limit)
	if err != nil {
		return h.fail(c, "prediction history", req.Symbol, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *AnalysisEchoHandler) Ticker(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Ticker(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "ticker", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) OHLCV(c echo.Context) error {
	req := &models.OHLCVRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	rows, err := h.uc.Candles(c.Request().Context(), req.Symbol, tf, req.Limit)
	if err != nil {
		return h.fail(c, "ohlcv", req.Symbol, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// fail maps use case errors onto AppErrors and logs server-side failures.
func (h *AnalysisEchoHandler) fail(c echo.Context, op, symbol string, err error) error {
	appErr := toAppError(symbol, err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error",
			xlogger.String("symbol", symbol),
			xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(symbol string, err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domrepo.ErrUnknownSymbol):
		return xhttp.NotFoundErrorf("unknown symbol %s", util.NormalizeSymbol(symbol)).WithError(err)
	case errors.Is(err, domrepo.ErrHistoryDisabled):
		return xhttp.NotConfiguredError(err.Error())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, domrepo.ErrNoCandles):
		return xhttp.UnavailableError("market data temporarily unavailable").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.TimeoutError("analysis timed out").WithError(err)
	default:
		return xhttp.InternalError("analysis failed").WithError(err)
	}
}
