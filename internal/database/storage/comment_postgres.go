package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CommentStorage реализует ports.CommentStorage
type CommentStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewCommentStorage(db *sqlx.DB, logger *slog.Logger) *CommentStorage {
	return &CommentStorage{db: db, logger: logger}
}

func (s *CommentStorage) CreateComment(ctx context.Context, comment *domain.Comment) error {
	start := time.Now()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO comments (id, paste_id, user_id, author, content, created_at)
	VALUES (:id, :paste_id, :user_id, :author, :content, :created_at)
	`, comment)
	if err != nil {
		s.logger.Error("failed to save comment", "paste_id", comment.PasteID, "error", err)
		return fmt.Errorf("insert comment: %w", err)
	}

	s.logger.Info("comment saved",
		"id", comment.ID,
		"paste_id", comment.PasteID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListCommentsByPaste — комментарии пасты по возрастанию времени создания
// вместе с текущим профилем автора.
func (s *CommentStorage) ListCommentsByPaste(ctx context.Context, pasteID uuid.UUID) ([]domain.CommentView, error) {
	comments := []domain.CommentView{}
	err := s.db.SelectContext(ctx, &comments, `
	SELECT c.id, c.paste_id, c.user_id, c.author, c.content, c.created_at,
	       pr.username AS profile_username,
	       pr.email AS profile_email
	FROM comments c
	LEFT JOIN profiles pr ON pr.id = c.user_id
	WHERE c.paste_id = $1
	ORDER BY c.created_at ASC
	`, pasteID)
	if err != nil {
		s.logger.Error("failed to list comments", "paste_id", pasteID, "error", err)
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return comments, nil
}
