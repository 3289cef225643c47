package ports

import (
	"context"
	"io"
	"time"

	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет методы для работы с учетными записями
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ProfileStorage определяет методы для работы с профилями.
// Отсутствие строки возвращается как apperr.ErrNotFound.
type ProfileStorage interface {
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	InsertProfileIfAbsent(ctx context.Context, profile *domain.Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	ListRecentProfiles(ctx context.Context, limit int) ([]domain.Profile, error)
	ListProfileIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	UpdateProfileDetails(ctx context.Context, id uuid.UUID, username, bio *string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
	CountProfiles(ctx context.Context) (int64, error)
}

// PasteStorage определяет методы для работы с пастами
type PasteStorage interface {
	CreatePaste(ctx context.Context, paste *domain.Paste) error
	ListPublicPastes(ctx context.Context, filter domain.PasteFilter) ([]domain.PasteListItem, error)
	ListPublicPastesByUser(ctx context.Context, userID uuid.UUID) ([]domain.PasteListItem, error)
	GetPublicPasteByTitle(ctx context.Context, title string) (*domain.PasteListItem, error)
	GetPublicPasteBySlug(ctx context.Context, slug string) (*domain.PasteListItem, error)
	IncrementPasteViews(ctx context.Context, id uuid.UUID) error
	CountPublicPastes(ctx context.Context) (int64, error)
}

// CommentStorage определяет методы для работы с комментариями
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	ListCommentsByPaste(ctx context.Context, pasteID uuid.UUID) ([]domain.CommentView, error)
}

// FileStorage — объектное хранилище аватаров.
type FileStorage interface {
	// UploadFile загружает объект и возвращает его публичный URL.
	UploadFile(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error)
}

// PresenceStore хранит последний снимок "онлайн" пользователей.
type PresenceStore interface {
	SaveOnline(ctx context.Context, ids []uuid.UUID) error
	LoadOnline(ctx context.Context) ([]uuid.UUID, error)
}

// TokenDenylist — отозванные токены сессий.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
