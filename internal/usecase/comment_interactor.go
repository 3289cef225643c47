package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/google/uuid"
)

const (
	msgCommentLoginRequired = "Login to add comments"
	msgCommentFailed        = "Error adding comment"
)

type commentUseCase struct {
	comments ports.CommentStorage
	logger   *slog.Logger
	now      func() time.Time
}

func NewCommentUseCase(comments ports.CommentStorage, logger *slog.Logger) CommentUseCase {
	return &commentUseCase{comments: comments, logger: logger, now: time.Now}
}

func (uc *commentUseCase) AddComment(ctx context.Context, snap session.Snapshot, pasteID uuid.UUID, content string) (*domain.Comment, error) {
	if !snap.Authenticated() {
		return nil, apperr.Unauthorized(msgCommentLoginRequired)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PasteID:   pasteID,
		UserID:    snap.User.ID,
		Author:    snap.Username(),
		Content:   content,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.comments.CreateComment(ctx, comment); err != nil {
		uc.logger.Error("failed to add comment", "paste_id", pasteID, "error", err)
		return nil, &apperr.Error{Kind: apperr.KindBackend, Message: msgCommentFailed, Err: err}
	}
	return comment, nil
}
