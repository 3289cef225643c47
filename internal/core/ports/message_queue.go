package ports

import (
	"context"

	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
)

// PasteViewPublisher публикует задачи на увеличение счетчика просмотров.
// Используется use case страницы пасты
type PasteViewPublisher interface {
	PublishPasteView(ctx context.Context, payload payloads.PasteViewPayload) error
}

// AuthEventPublisher публикует события входа и выхода
type AuthEventPublisher interface {
	PublishAuthEvent(ctx context.Context, payload payloads.AuthEventPayload) error
}

// PasteViewConsumer используется воркером для получения задач из очереди просмотров
type PasteViewConsumer interface {
	// StartConsumingPasteViews начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingPasteViews(ctx context.Context, handler func(context.Context, payloads.PasteViewPayload) error) error
}

// AuthEventConsumer используется воркером для обработки событий аутентификации
type AuthEventConsumer interface {
	StartConsumingAuthEvents(ctx context.Context, handler func(context.Context, payloads.AuthEventPayload) error) error
}
