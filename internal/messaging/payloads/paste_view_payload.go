package payloads

import "github.com/google/uuid"

// PasteViewPayload — задача на увеличение счетчика просмотров пасты.
type PasteViewPayload struct {
	PasteID uuid.UUID `json:"paste_id"`
}
