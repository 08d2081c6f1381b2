package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	xhttp "TradeLens/pkg/http"
	applogger "TradeLens/pkg/logger"
)

func TestRunStopsWhenContextEnds(t *testing.T) {
	l := applogger.Nop()
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
		xhttp.WithLogger(l),
	)
	app := New(l, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
