package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vendrhub/klarna-hpp/internal/storage/postgres"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

func gracefulShutdown(ctx context.Context, logger logger.Logger, pool *postgres.Pool, serverErr <-chan error, stopServer context.CancelFunc) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverStopped := false

	select {
	case <-ctx.Done():
		logger.Info("context cancelled, starting shutdown")
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		serverStopped = true
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			pool.Close()
			return err
		}
		logger.Info("HTTP server stopped")
	}

	stopServer()

	if !serverStopped {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Let the server finish in-flight requests before closing the pool.
		select {
		case <-serverErr:
		case <-shutdownCtx.Done():
			logger.Warn("shutdown timeout exceeded")
		}
	}

	logger.Info("closing database connections")
	pool.Close()

	logger.Info("shutdown completed successfully")
	return nil
}
