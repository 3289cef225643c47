// internal/domain/user.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RichUserEmail — единственный привилегированный адрес (tier gate).
const RichUserEmail = "ikiikikikijujijij@gmail.com"

// User представляет учетную запись для аутентификации.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsRichUser проверяет email против RichUserEmail.
func IsRichUser(email string) bool {
	return email == RichUserEmail
}

// DefaultUsername возвращает local-part адреса (всё до '@').
func DefaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
