package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
	"github.com/GoArmGo/PasteApp/internal/usecase"
)

// runWorker читает очереди просмотров и событий входа до отмены ctx
func runWorker(
	ctx context.Context,
	pastes usecase.PasteUseCase,
	authUC usecase.AuthUseCase,
	consumers Consumers,
	logger *slog.Logger,
) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	viewHandler := func(ctx context.Context, payload payloads.PasteViewPayload) error {
		if err := pastes.RecordView(ctx, payload); err != nil {
			return err
		}
		logger.Debug("paste view recorded", "paste_id", payload.PasteID)
		return nil
	}

	authHandler := func(ctx context.Context, payload payloads.AuthEventPayload) error {
		logger.Info("auth event received", "event", payload.Event, "user_id", payload.UserID)
		return authUC.HandleAuthEvent(ctx, payload)
	}

	if err := consumers.StartConsumingPasteViews(workerCtx, viewHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя просмотров: %w", err)
	}
	if err := consumers.StartConsumingAuthEvents(workerCtx, authHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя событий входа: %w", err)
	}

	logger.Info("worker started, waiting for messages")
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping worker")
	return nil
}
