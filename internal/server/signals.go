package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalHandler manages graceful shutdown of the HTTP server
type SignalHandler struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) *SignalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignalHandler{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Shutdown drains in-flight requests, giving up after the shutdown timeout
func (sh *SignalHandler) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sh.shutdownTimeout)
	defer cancel()

	if err := sh.server.Shutdown(ctx); err != nil {
		sh.logger.Warn("Server forced to shutdown due to timeout", "error", err)
		return err
	}
	sh.logger.Info("Server gracefully shut down")
	return nil
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// listener fails. A listener failure is returned.
func (sh *SignalHandler) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		sh.logger.Info("Starting server", "addr", sh.server.Addr)
		if err := sh.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sh.logger.Info("Initiating graceful shutdown")
	return sh.Shutdown()
}

// HandleSignals starts server and blocks until it has shut down
func HandleSignals(server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	return NewSignalHandler(server, shutdownTimeout, logger).Run(context.Background())
}
