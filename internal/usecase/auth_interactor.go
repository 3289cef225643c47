package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/auth"
	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/google/uuid"
)

const (
	msgCredentialsRequired = "Email and password required"
	msgPasswordTooShort    = "Password must be at least 6 characters"
	msgInvalidCredentials  = "Invalid login credentials"
	msgAlreadyRegistered   = "User already registered"
	msgSessionInvalid      = "Session expired, please log in again"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users     ports.UserStorage
	profiles  ports.ProfileStorage
	loader    session.ProfileLoader
	tokens    *auth.Tokens
	denylist  ports.TokenDenylist
	publisher ports.AuthEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthUseCase(
	users ports.UserStorage,
	profiles ports.ProfileStorage,
	loader session.ProfileLoader,
	tokens *auth.Tokens,
	denylist ports.TokenDenylist,
	publisher ports.AuthEventPublisher,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		users:     users,
		profiles:  profiles,
		loader:    loader,
		tokens:    tokens,
		denylist:  denylist,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SignUp проверяет ввод, сохраняет пользователя с bcrypt-хэшем и создает профиль.
// Ошибка записи профиля только логируется: регистрация все равно успешна.
func (uc *authUseCase) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(msgCredentialsRequired)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperr.Validation(msgPasswordTooShort)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Validation(msgAlreadyRegistered)
		}
		return nil, apperr.Backend(err)
	}

	profile := domain.NewDefaultProfile(*user, user.CreatedAt)
	if err := uc.profiles.UpsertProfile(ctx, &profile); err != nil {
		uc.logger.Error("profile creation failed after signup", "user_id", user.ID, "error", err)
	}

	uc.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// LogIn переводит состояние в Authenticating на время проверки пароля.
// При неудаче состояние возвращается в Anonymous.
func (uc *authUseCase) LogIn(ctx context.Context, st *session.State, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.Validation(msgCredentialsRequired)
	}

	st.BeginAuth()

	user, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil {
		st.FailAuth()
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.Unauthorized(msgInvalidCredentials)
		}
		return "", apperr.Backend(err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		st.FailAuth()
		uc.logger.Warn("login failed", "user_id", user.ID)
		return "", apperr.Unauthorized(msgInvalidCredentials)
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		st.FailAuth()
		return "", fmt.Errorf("usecase: %w", err)
	}

	st.Apply(ctx, session.Event{Type: session.SignedIn, User: user})
	uc.publish(ctx, session.SignedIn, user)

	uc.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// LogOut очищает состояние даже если отзыв токена не удался.
func (uc *authUseCase) LogOut(ctx context.Context, st *session.State, token string) error {
	if token != "" {
		if claims, err := uc.tokens.Parse(token); err == nil {
			if err := uc.denylist.Revoke(ctx, claims.ID, claims.Remaining(uc.now())); err != nil {
				uc.logger.Error("failed to revoke session token", "error", err)
			}
		}
	}

	user := st.Snapshot().User
	st.Apply(ctx, session.Event{Type: session.SignedOut})
	if user != nil {
		uc.publish(ctx, session.SignedOut, user)
		uc.logger.Info("user logged out", "user_id", user.ID)
	}
	return nil
}

func (uc *authUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: msgSessionInvalid, Err: err}
	}

	revoked, err := uc.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	if revoked {
		return nil, apperr.Unauthorized(msgSessionInvalid)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized(msgSessionInvalid)
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized(msgSessionInvalid)
		}
		return nil, apperr.Backend(err)
	}
	return user, nil
}

// HandleAuthEvent: SIGNED_IN провиженит профиль на стороне сервера, SIGNED_OUT только логируется.
func (uc *authUseCase) HandleAuthEvent(ctx context.Context, payload payloads.AuthEventPayload) error {
	switch session.EventType(payload.Event) {
	case session.SignedIn:
		user := domain.User{ID: payload.UserID, Email: payload.Email}
		if _, err := uc.loader.GetOrCreateProfile(ctx, user); err != nil {
			return fmt.Errorf("usecase: provision profile for %s: %w", payload.UserID, err)
		}
		uc.logger.Info("profile provisioned from auth event", "user_id", payload.UserID)
		return nil
	case session.SignedOut:
		uc.logger.Info("user signed out", "user_id", payload.UserID)
		return nil
	default:
		return fmt.Errorf("usecase: unknown auth event %q", payload.Event)
	}
}

// publish отправляет событие без гарантий: ошибка только логируется.
func (uc *authUseCase) publish(ctx context.Context, ev session.EventType, user *domain.User) {
	err := uc.publisher.PublishAuthEvent(ctx, payloads.AuthEventPayload{
		Event:  string(ev),
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		uc.logger.Error("failed to publish auth event", "event", ev, "user_id", user.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
