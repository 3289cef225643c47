package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к пасте, соответствует таблице comments в бд
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PasteID   uuid.UUID `json:"paste_id" db:"paste_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Author    string    `json:"author" db:"author"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentView — комментарий с текущими данными профиля автора.
type CommentView struct {
	Comment
	ProfileUsername *string `json:"profile_username,omitempty" db:"profile_username"`
	ProfileEmail    *string `json:"profile_email,omitempty" db:"profile_email"`
}

// AuthorName: username профиля, затем снимок author, затем AnonymousName.
func (c CommentView) AuthorName() string {
	if c.ProfileUsername != nil && *c.ProfileUsername != "" {
		return *c.ProfileUsername
	}
	if c.Author != "" {
		return c.Author
	}
	return AnonymousName
}

func (c CommentView) AuthorIsRich() bool {
	return c.ProfileEmail != nil && IsRichUser(*c.ProfileEmail)
}

// ProfilePage — данные страницы профиля.
type ProfilePage struct {
	Profile Profile
	Pastes  []PasteListItem
}

// RecentPastesLimit — сколько паст показывает профиль.
const RecentPastesLimit = 5

// RecentPastes возвращает не больше RecentPastesLimit последних паст.
func (p ProfilePage) RecentPastes() []PasteListItem {
	if len(p.Pastes) > RecentPastesLimit {
		return p.Pastes[:RecentPastesLimit]
	}
	return p.Pastes
}
