package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/google/uuid"
)

const (
	msgLoginRequired  = "Please log in first"
	msgGIFNotAllowed  = "Only RICH users can upload GIFs"
	msgNoFile         = "Please choose a file"
	msgProfileMissing = "Profile not found"
)

// profileUseCase implements ProfileUseCase
type profileUseCase struct {
	profiles ports.ProfileStorage
	pastes   ports.PasteStorage
	files    ports.FileStorage
	stamp    *millisStamp
	logger   *slog.Logger
	now      func() time.Time
}

func NewProfileUseCase(
	profiles ports.ProfileStorage,
	pastes ports.PasteStorage,
	files ports.FileStorage,
	logger *slog.Logger,
) ProfileUseCase {
	return &profileUseCase{
		profiles: profiles,
		pastes:   pastes,
		files:    files,
		stamp:    newMillisStamp(time.Now),
		logger:   logger,
		now:      time.Now,
	}
}

// GetOrCreateProfile читает профиль, а на "строка не найдена" вставляет профиль
// по умолчанию и перечитывает. Вставка не перезаписывает строку, созданную
// параллельно, поэтому профиль всегда один.
func (uc *profileUseCase) GetOrCreateProfile(ctx context.Context, user domain.User) (*domain.Profile, error) {
	profile, err := uc.profiles.GetProfileByID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("usecase: load profile: %w", err)
	}

	uc.logger.Warn("profile missing, creating default", "user_id", user.ID)
	fresh := domain.NewDefaultProfile(user, uc.now().UTC())
	if err := uc.profiles.InsertProfileIfAbsent(ctx, &fresh); err != nil {
		return nil, fmt.Errorf("usecase: create profile: %w", err)
	}

	profile, err = uc.profiles.GetProfileByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: reload profile: %w", err)
	}
	return profile, nil
}

// LoadProfile собирает профиль и все публичные пасты владельца.
func (uc *profileUseCase) LoadProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfilePage, error) {
	profile, err := uc.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(msgProfileMissing, err)
		}
		return nil, fmt.Errorf("usecase: load profile: %w", err)
	}

	pastes, err := uc.pastes.ListPublicPastesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: load profile pastes: %w", err)
	}

	return &domain.ProfilePage{Profile: *profile, Pastes: pastes}, nil
}

// SaveProfileChanges меняет профиль текущего пользователя; пустые строки становятся NULL.
func (uc *profileUseCase) SaveProfileChanges(ctx context.Context, snap session.Snapshot, username, bio string) error {
	if !snap.Authenticated() {
		return apperr.Unauthorized(msgLoginRequired)
	}

	err := uc.profiles.UpdateProfileDetails(ctx, snap.User.ID,
		domain.OptionalString(username), domain.OptionalString(bio))
	if err != nil {
		return apperr.Backend(err)
	}
	return nil
}

// UploadAvatar: GIF разрешен только пользователю, прошедшему tier gate.
// Ключ объекта <userID>/<millis>.<ext>.
func (uc *profileUseCase) UploadAvatar(ctx context.Context, snap session.Snapshot, file domain.AvatarFile) (string, error) {
	if !snap.Authenticated() {
		return "", apperr.Unauthorized(msgLoginRequired)
	}
	if file.Body == nil || file.Name == "" {
		return "", apperr.Validation(msgNoFile)
	}
	if file.IsAnimated() && !snap.IsRich() {
		return "", apperr.Forbidden(msgGIFNotAllowed)
	}

	userID := snap.User.ID
	key := domain.AvatarObjectKey(userID, uc.stamp.Next(), file.Extension())

	url, err := uc.files.UploadFile(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return "", apperr.Backend(err)
	}
	if err := uc.profiles.UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", apperr.Backend(err)
	}

	uc.logger.Info("avatar updated", "user_id", userID, "key", key)
	return url, nil
}
