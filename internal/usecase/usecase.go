package usecase

import (
	"context"
	"time"

	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/google/uuid"
)

// AuthUseCase определяет бизнес-логику регистрации, входа и выхода
type AuthUseCase interface {
	// SignUp создает учетную запись и профиль по умолчанию. Сессию не открывает.
	SignUp(ctx context.Context, email, password string) (*domain.User, error)

	// LogIn проверяет учетные данные, применяет SIGNED_IN к состоянию сессии
	// и возвращает токен для cookie
	LogIn(ctx context.Context, st *session.State, email, password string) (string, error)

	// LogOut отзывает токен и применяет SIGNED_OUT
	LogOut(ctx context.Context, st *session.State, token string) error

	// Authenticate восстанавливает пользователя по токену из cookie
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// HandleAuthEvent обрабатывает событие из очереди на стороне воркера
	HandleAuthEvent(ctx context.Context, payload payloads.AuthEventPayload) error
}

// ProfileUseCase определяет бизнес-логику профилей
type ProfileUseCase interface {
	// GetOrCreateProfile возвращает профиль пользователя, создавая его при отсутствии.
	// Повторный вызов находит уже созданную строку
	GetOrCreateProfile(ctx context.Context, user domain.User) (*domain.Profile, error)

	LoadProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfilePage, error)
	SaveProfileChanges(ctx context.Context, snap session.Snapshot, username, bio string) error

	// UploadAvatar загружает аватар и возвращает его публичный URL
	UploadAvatar(ctx context.Context, snap session.Snapshot, file domain.AvatarFile) (string, error)
}

// ListingUseCase — публичный листинг паст и пользователей
type ListingUseCase interface {
	LoadAllPastes(ctx context.Context) ([]domain.PasteListItem, error)

	// SearchPastes с пустым запросом ведет себя как LoadAllPastes
	SearchPastes(ctx context.Context, query string, searchTitle bool) ([]domain.PasteListItem, error)

	LoadUsers(ctx context.Context) ([]domain.UserCard, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// PasteUseCase — страница пасты и загрузка новых паст
type PasteUseCase interface {
	LoadPasteByTitle(ctx context.Context, slug string) (*domain.PasteDetail, error)
	UploadPaste(ctx context.Context, snap session.Snapshot, title, content string, isPrivate bool) (*domain.Paste, error)

	// RecordView увеличивает счетчик просмотров; вызывается воркером
	RecordView(ctx context.Context, payload payloads.PasteViewPayload) error

	// Wait блокируется, пока не завершатся фоновые публикации просмотров
	Wait()
}

// CommentUseCase — комментарии к пастам
type CommentUseCase interface {
	// AddComment возвращает nil, nil для пустого комментария
	AddComment(ctx context.Context, snap session.Snapshot, pasteID uuid.UUID, content string) (*domain.Comment, error)
}

// PresenceUseCase — косметический счетчик "онлайн": случайная выборка профилей,
// а не настоящее отслеживание присутствия
type PresenceUseCase interface {
	// Sample делает новую выборку и сохраняет ее
	Sample(ctx context.Context) ([]uuid.UUID, error)

	// Run повторяет Sample каждые interval до отмены ctx
	Run(ctx context.Context, interval time.Duration)

	Online(ctx context.Context) ([]uuid.UUID, error)
}
