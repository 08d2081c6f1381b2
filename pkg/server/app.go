package server

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	xhttp "TradeLens/pkg/http"
	applogger "TradeLens/pkg/logger"
)

// App encapsulates the HTTP lifecycle. Infrastructure clients are released
// by the injector's cleanup after Run returns.
type App struct {
	log  *applogger.Logger
	http *xhttp.Server
}

func New(l *applogger.Logger, srv *xhttp.Server) *App {
	return &App{log: l, http: srv}
}

// Run starts serving and blocks until ctx ends or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.http.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.Shutdown()
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown() error {
	timeout := a.http.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.http.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
