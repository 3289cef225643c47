package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const profileColumns = `id, email, username, bio, avatar_url, created_at`

// ProfileStorage реализует ports.ProfileStorage
type ProfileStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewProfileStorage(db *sqlx.DB, logger *slog.Logger) *ProfileStorage {
	return &ProfileStorage{db: db, logger: logger}
}

// UpsertProfile создает профиль или обновляет email и username существующего.
func (s *ProfileStorage) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	start := time.Now()

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO profiles (id, email, username, bio, avatar_url, created_at)
	VALUES (:id, :email, :username, :bio, :avatar_url, :created_at)
	ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, username = EXCLUDED.username
	`, profile)
	if err != nil {
		s.logger.Error("failed to upsert profile", "profile_id", profile.ID, "error", err)
		return fmt.Errorf("upsert profile: %w", err)
	}

	s.logger.Info("profile upserted",
		"profile_id", profile.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// InsertProfileIfAbsent вставляет профиль, если строки с таким id еще нет.
// Гонка двух вставок заканчивается одной строкой.
func (s *ProfileStorage) InsertProfileIfAbsent(ctx context.Context, profile *domain.Profile) error {
	res, err := s.db.NamedExecContext(ctx, `
	INSERT INTO profiles (id, email, username, bio, avatar_url, created_at)
	VALUES (:id, :email, :username, :bio, :avatar_url, :created_at)
	ON CONFLICT (id) DO NOTHING
	`, profile)
	if err != nil {
		s.logger.Error("failed to insert profile", "profile_id", profile.ID, "error", err)
		return fmt.Errorf("insert profile: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("profile created", "profile_id", profile.ID)
	}
	return nil
}

func (s *ProfileStorage) GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := s.db.GetContext(ctx, &profile,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("profile not found", "profile_id", id)
			return nil, apperr.ErrNotFound
		}
		s.logger.Error("failed to get profile", "profile_id", id, "error", err)
		return nil, fmt.Errorf("select profile: %w", err)
	}
	return &profile, nil
}

// ListRecentProfiles — последние зарегистрированные профили.
func (s *ProfileStorage) ListRecentProfiles(ctx context.Context, limit int) ([]domain.Profile, error) {
	start := time.Now()

	profiles := []domain.Profile{}
	err := s.db.SelectContext(ctx, &profiles,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		s.logger.Error("failed to list profiles", "limit", limit, "error", err)
		return nil, fmt.Errorf("select profiles: %w", err)
	}

	s.logger.Debug("profiles listed",
		"found", len(profiles),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return profiles, nil
}

func (s *ProfileStorage) ListProfileIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM profiles LIMIT $1`, limit); err != nil {
		s.logger.Error("failed to list profile ids", "limit", limit, "error", err)
		return nil, fmt.Errorf("select profile ids: %w", err)
	}
	return ids, nil
}

// UpdateProfileDetails перезаписывает username и bio; nil сохраняется как NULL.
func (s *ProfileStorage) UpdateProfileDetails(ctx context.Context, id uuid.UUID, username, bio *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET username = $2, bio = $3 WHERE id = $1`, id, username, bio)
	if err != nil {
		s.logger.Error("failed to update profile", "profile_id", id, "error", err)
		return fmt.Errorf("update profile: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	s.logger.Info("profile updated", "profile_id", id)
	return nil
}

func (s *ProfileStorage) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET avatar_url = $2 WHERE id = $1`, id, avatarURL)
	if err != nil {
		s.logger.Error("failed to update avatar url", "profile_id", id, "error", err)
		return fmt.Errorf("update avatar url: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	s.logger.Info("avatar url updated", "profile_id", id, "avatar_url", avatarURL)
	return nil
}

func (s *ProfileStorage) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM profiles`); err != nil {
		s.logger.Error("failed to count profiles", "error", err)
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
