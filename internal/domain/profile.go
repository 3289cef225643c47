package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousName подставляется, когда у профиля нет username.
const AnonymousName = "Anonymous"

// Profile — публичный профиль пользователя, один к одному с User.
// Соответствует таблице profiles в бд
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewDefaultProfile собирает профиль, который создается при регистрации
// или при первом входе.
func NewDefaultProfile(user User, now time.Time) Profile {
	username := DefaultUsername(user.Email)
	return Profile{
		ID:        user.ID,
		Email:     user.Email,
		Username:  &username,
		CreatedAt: now,
	}
}

// DisplayName возвращает username или AnonymousName.
func (p Profile) DisplayName() string {
	if p.Username == nil || *p.Username == "" {
		return AnonymousName
	}
	return *p.Username
}

// Initial — первая буква username в верхнем регистре, пусто если username нет.
func (p Profile) Initial() string {
	if p.Username == nil || *p.Username == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(*p.Username)[0:1]))
}

// IsRich — tier-бейдж владельца профиля.
func (p Profile) IsRich() bool {
	return IsRichUser(p.Email)
}

// ShortID — первые 8 символов id (UID в шапке профиля).
func (p Profile) ShortID() string {
	return p.ID.String()[:8]
}

// OptionalString нормализует пустую строку в отсутствие значения.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// UserCard — карточка на странице пользователей.
type UserCard struct {
	Profile Profile
	Online  bool
}
