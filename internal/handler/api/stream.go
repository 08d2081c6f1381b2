package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"TradeLens/internal/usecase"
	xlogger "TradeLens/pkg/logger"
	"TradeLens/pkg/util"
)

// StreamConfig controls the push cadence of the websocket streams.
type StreamConfig struct {
	PushInterval   time.Duration
	TickerInterval time.Duration
	WriteTimeout   time.Duration
}

// StreamMessage is the envelope of every frame pushed to clients.
type StreamMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StreamHandler pushes prediction status and ticker updates over websockets.
type StreamHandler struct {
	logger   *xlogger.Logger
	uc       *usecase.AnalysisUseCase
	cfg      StreamConfig
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase, cfg StreamConfig) *StreamHandler {
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = 5 * time.Second
	}
	if cfg.TickerInterval <= 0 {
		cfg.TickerInterval = 2 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &StreamHandler{
		logger: logger,
		uc:     uc,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/ws")
	g.GET("/predictions/:symbol", h.Predictions)
	g.GET("/ticker/:symbol", h.Ticker)
}

func (h *StreamHandler) Predictions(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("symbol"))
	return h.stream(c, symbol, "predictions", h.cfg.PushInterval, func(ctx context.Context) (interface{}, error) {
		return h.uc.PredictionStatus(ctx, symbol)
	})
}

func (h *StreamHandler) Ticker(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("symbol"))
	return h.stream(c, symbol, "ticker", h.cfg.TickerInterval, func(ctx context.Context) (interface{}, error) {
		return h.uc.Ticker(ctx, symbol)
	})
}

// stream upgrades the connection and pushes fetch results every interval
// until the client goes away or the request context ends.
func (h *StreamHandler) stream(c echo.Context, symbol, kind string, every time.Duration, fetch func(context.Context) (interface{}, error)) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			xlogger.String("stream", kind),
			xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	// the server read timeout must not outlive the upgrade
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Inbound frames are discarded; a read error means the peer is gone.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("websocket stream opened",
		xlogger.String("stream", kind),
		xlogger.String("symbol", symbol))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, kind, symbol, fetch); err != nil {
			if !errors.Is(err, context.Canceled) {
				h.logger.Debug("websocket stream closed",
					xlogger.String("stream", kind),
					xlogger.String("symbol", symbol),
					xlogger.Error(err))
			}
			return nil
		}
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.cfg.WriteTimeout))
			return nil
		case <-ticker.C:
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, kind, symbol string, fetch func(context.Context) (interface{}, error)) error {
	msg := StreamMessage{Type: kind}
	data, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg = StreamMessage{Type: "error", Message: toAppError(symbol, err).Message}
	} else {
		msg.Data = data
	}

	if err := conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
