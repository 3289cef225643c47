package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// pasteListSelect — публичные пасты с профилем владельца и числом комментариев.
const pasteListSelect = `
	SELECT p.id, p.title, p.content, p.is_private, p.user_id, p.username, p.views, p.created_at,
	       pr.username AS author_username,
	       pr.email AS author_email,
	       pr.avatar_url AS author_avatar_url,
	       (SELECT COUNT(*) FROM comments c WHERE c.paste_id = p.id) AS comment_count
	FROM pastes p
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE p.is_private = FALSE`

// slugExpr вычисляет slug заголовка так же, как domain.Slugify.
const slugExpr = `trim(both '-' from regexp_replace(lower(p.title), '[^a-z0-9]+', '-', 'g'))`

// PasteStorage реализует ports.PasteStorage
type PasteStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPasteStorage(db *sqlx.DB, logger *slog.Logger) *PasteStorage {
	return &PasteStorage{db: db, logger: logger}
}

// CreatePaste сохраняет пасту в базе данных
func (s *PasteStorage) CreatePaste(ctx context.Context, paste *domain.Paste) error {
	start := time.Now()

	if paste.ID == uuid.Nil {
		paste.ID = uuid.New()
	}
	if paste.CreatedAt.IsZero() {
		paste.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO pastes (id, title, content, is_private, user_id, username, views, created_at)
	VALUES (:id, :title, :content, :is_private, :user_id, :username, :views, :created_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, paste); err != nil {
		s.logger.Error("failed to save paste", "title", paste.Title, "error", err)
		return fmt.Errorf("ошибка при сохранении пасты: %w", err)
	}

	s.logger.Info("paste saved successfully",
		"id", paste.ID,
		"user_id", paste.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListPublicPastes возвращает публичные пасты, новые первыми.
// Непустой filter.Query ищет подстроку без учета регистра в заголовке или содержимом.
func (s *PasteStorage) ListPublicPastes(ctx context.Context, filter domain.PasteFilter) ([]domain.PasteListItem, error) {
	start := time.Now()

	q := pasteListSelect
	var args []any
	if filter.Query != "" {
		column := "p.content"
		if filter.SearchTitle {
			column = "p.title"
		}
		q += ` AND ` + column + ` ILIKE $1 ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Query)+"%")
	}
	q += ` ORDER BY p.created_at DESC`

	pastes := []domain.PasteListItem{}
	if err := s.db.SelectContext(ctx, &pastes, q, args...); err != nil {
		s.logger.Error("failed to list pastes",
			"query", filter.Query,
			"search_title", filter.SearchTitle,
			"error", err,
		)
		return nil, fmt.Errorf("ошибка при получении списка паст: %w", err)
	}

	s.logger.Info("pastes listed",
		"query", filter.Query,
		"found", len(pastes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pastes, nil
}

// ListPublicPastesByUser — публичные пасты одного пользователя для страницы профиля.
func (s *PasteStorage) ListPublicPastesByUser(ctx context.Context, userID uuid.UUID) ([]domain.PasteListItem, error) {
	pastes := []domain.PasteListItem{}
	q := pasteListSelect + ` AND p.user_id = $1 ORDER BY p.created_at DESC`
	if err := s.db.SelectContext(ctx, &pastes, q, userID); err != nil {
		s.logger.Error("failed to list user pastes", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении паст пользователя: %w", err)
	}
	return pastes, nil
}

// GetPublicPasteByTitle ищет первую публичную пасту с точно таким заголовком
func (s *PasteStorage) GetPublicPasteByTitle(ctx context.Context, title string) (*domain.PasteListItem, error) {
	return s.getOne(ctx, pasteListSelect+` AND p.title = $1 ORDER BY p.created_at ASC LIMIT 1`, title)
}

// GetPublicPasteBySlug ищет самую старую публичную пасту, чей заголовок дает такой slug
func (s *PasteStorage) GetPublicPasteBySlug(ctx context.Context, slug string) (*domain.PasteListItem, error) {
	return s.getOne(ctx, pasteListSelect+` AND `+slugExpr+` = $1 ORDER BY p.created_at ASC LIMIT 1`, slug)
}

func (s *PasteStorage) getOne(ctx context.Context, query, arg string) (*domain.PasteListItem, error) {
	var paste domain.PasteListItem
	if err := s.db.GetContext(ctx, &paste, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		s.logger.Error("failed to get paste", "lookup", arg, "error", err)
		return nil, fmt.Errorf("ошибка при получении пасты: %w", err)
	}
	return &paste, nil
}

// IncrementPasteViews вызывает серверную функцию increment_paste_views
func (s *PasteStorage) IncrementPasteViews(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `SELECT increment_paste_views($1)`, id); err != nil {
		s.logger.Error("failed to increment paste views", "paste_id", id, "error", err)
		return fmt.Errorf("increment paste views: %w", err)
	}
	s.logger.Debug("paste views incremented", "paste_id", id)
	return nil
}

func (s *PasteStorage) CountPublicPastes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pastes WHERE is_private = FALSE`); err != nil {
		s.logger.Error("failed to count pastes", "error", err)
		return 0, fmt.Errorf("count pastes: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует метасимволы LIKE, чтобы запрос искал их буквально.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
