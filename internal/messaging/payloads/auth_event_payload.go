package payloads

import "github.com/google/uuid"

// AuthEventPayload — событие SIGNED_IN / SIGNED_OUT, которое публикует сервер
// и обрабатывает воркер.
type AuthEventPayload struct {
	Event  string    `json:"event"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
