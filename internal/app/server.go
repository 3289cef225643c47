package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/PasteApp/internal/config"
	"github.com/GoArmGo/PasteApp/internal/handler"
	"github.com/GoArmGo/PasteApp/internal/render"
)

const shutdownTimeout = 30 * time.Second

// runServer запускает HTTP сервер и фоновую выборку "онлайн" до отмены ctx
func runServer(
	ctx context.Context,
	cfg *config.Config,
	useCases handler.UseCases,
	renderer *render.Renderer,
	logger *slog.Logger,
) error {
	h := handler.NewHandler(
		useCases,
		renderer,
		handler.CookieOptions{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL},
		cfg.PublicBaseURL,
		logger,
	)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler.NewRouter(h, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	presenceCtx, stopPresence := context.WithCancel(ctx)
	defer stopPresence()
	go useCases.Presence.Run(presenceCtx, cfg.PresenceInterval)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")
	stopPresence()

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	useCases.Pastes.Wait()

	logger.Info("http server stopped")
	return nil
}
