package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/PasteApp/internal/config"
	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/handler"
	"github.com/GoArmGo/PasteApp/internal/render"
)

// Consumers — очереди, которые читает воркер.
type Consumers interface {
	ports.PasteViewConsumer
	ports.AuthEventConsumer
}

// CloserFunc позволяет передать в NewApp ресурс, чей Close не возвращает ошибку.
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

type App struct {
	Config    *config.Config
	logger    *slog.Logger
	useCases  handler.UseCases
	renderer  *render.Renderer
	consumers Consumers
	closers   []io.Closer
}

// NewApp собирает приложение. closers закрываются в обратном порядке при Shutdown.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	useCases handler.UseCases,
	renderer *render.Renderer,
	consumers Consumers,
	closers ...io.Closer,
) *App {
	return &App{
		Config:    cfg,
		logger:    logger,
		useCases:  useCases,
		renderer:  renderer,
		consumers: consumers,
		closers:   closers,
	}
}

func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run блокируется до SIGINT/SIGTERM или ошибки выбранного режима.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.useCases, a.renderer, a.logger)
	case "worker":
		err = runWorker(ctx, a.useCases.Pastes, a.useCases.Auth, a.consumers, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
