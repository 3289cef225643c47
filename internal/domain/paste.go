package domain

import (
	"time"

	"github.com/google/uuid"
)

// Paste представляет пользовательский текст,
// соответствует таблице pastes в бд
type Paste struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsPrivate bool      `json:"is_private" db:"is_private"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Views     int64     `json:"views" db:"views"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Slug — адрес пасты для роутинга.
func (p Paste) Slug() string {
	return Slugify(p.Title)
}

// PasteListItem — паста вместе с профилем владельца и числом комментариев,
// то, что выдают листинг, поиск и страница профиля.
type PasteListItem struct {
	Paste
	AuthorUsername  *string `json:"author_username,omitempty" db:"author_username"`
	AuthorEmail     *string `json:"author_email,omitempty" db:"author_email"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty" db:"author_avatar_url"`
	CommentCount    int64   `json:"comment_count" db:"comment_count"`
}

// AuthorName берет username из профиля, иначе AnonymousName.
func (p PasteListItem) AuthorName() string {
	if p.AuthorUsername == nil || *p.AuthorUsername == "" {
		return AnonymousName
	}
	return *p.AuthorUsername
}

// AuthorIsRich — tier-бейдж автора.
func (p PasteListItem) AuthorIsRich() bool {
	return p.AuthorEmail != nil && IsRichUser(*p.AuthorEmail)
}

// PasteFilter описывает выборку публичных паст для листинга и поиска.
// Пустой Query — без фильтра по подстроке.
type PasteFilter struct {
	Query       string
	SearchTitle bool
}

// PasteDetail — всё, что нужно странице пасты.
type PasteDetail struct {
	Paste    PasteListItem
	Comments []CommentView
}

// Stats — счетчики для тикера.
type Stats struct {
	TotalUsers  int64 `json:"total_users"`
	TotalPastes int64 `json:"total_pastes"`
}
