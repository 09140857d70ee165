package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vendrhub/klarna-hpp/internal/config"
	"github.com/vendrhub/klarna-hpp/internal/server/checkout"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

type Server struct {
	server *http.Server
	log    logger.Logger
}

func New(cfg config.ServerConfig, handler *checkout.Handler, log logger.Logger) *Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{server: srv, log: log}
}

func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	errChan := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.Error("HTTP server shutdown error", zap.Error(err))
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
