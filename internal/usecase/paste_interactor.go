package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/google/uuid"
)

const (
	msgTitleContentRequired = "Title and content required"
	msgPasteNotFound        = "Paste not found"
	msgUploadLoginRequired  = "Please log in to upload pastes"

	viewPublishTimeout = 5 * time.Second
)

// pasteUseCase implements PasteUseCase
type pasteUseCase struct {
	pastes    ports.PasteStorage
	comments  ports.CommentStorage
	publisher ports.PasteViewPublisher
	logger    *slog.Logger
	now       func() time.Time

	inflight sync.WaitGroup
}

func NewPasteUseCase(
	pastes ports.PasteStorage,
	comments ports.CommentStorage,
	publisher ports.PasteViewPublisher,
	logger *slog.Logger,
) PasteUseCase {
	return &pasteUseCase{
		pastes:    pastes,
		comments:  comments,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// LoadPasteByTitle ищет пасту по декодированному slug (дефисы в пробелы),
// а если точного совпадения заголовка нет, по самому slug.
// Из нескольких паст с одинаковым slug выигрывает самая старая.
func (uc *pasteUseCase) LoadPasteByTitle(ctx context.Context, slug string) (*domain.PasteDetail, error) {
	paste, err := uc.findPaste(ctx, slug)
	if err != nil {
		return nil, err
	}

	uc.recordViewAsync(ctx, paste.ID)

	comments, err := uc.comments.ListCommentsByPaste(ctx, paste.ID)
	if err != nil {
		uc.logger.Error("failed to load comments", "paste_id", paste.ID, "error", err)
		comments = []domain.CommentView{}
	}

	return &domain.PasteDetail{Paste: *paste, Comments: comments}, nil
}

func (uc *pasteUseCase) findPaste(ctx context.Context, slug string) (*domain.PasteListItem, error) {
	title := domain.DecodeSlug(slug)
	if strings.TrimSpace(title) == "" {
		return nil, apperr.NotFound(msgPasteNotFound, apperr.ErrNotFound)
	}

	paste, err := uc.pastes.GetPublicPasteByTitle(ctx, title)
	if err == nil {
		return paste, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("usecase: get paste by title: %w", err)
	}

	paste, err = uc.pastes.GetPublicPasteBySlug(ctx, domain.Slugify(slug))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(msgPasteNotFound, err)
		}
		return nil, fmt.Errorf("usecase: get paste by slug: %w", err)
	}
	return paste, nil
}

// recordViewAsync публикует просмотр в фоне, не дожидаясь брокера.
// Отмена запроса публикацию не прерывает; ошибка только логируется.
func (uc *pasteUseCase) recordViewAsync(ctx context.Context, pasteID uuid.UUID) {
	bg := context.WithoutCancel(ctx)
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		ctx, cancel := context.WithTimeout(bg, viewPublishTimeout)
		defer cancel()
		if err := uc.publisher.PublishPasteView(ctx, payloads.PasteViewPayload{PasteID: pasteID}); err != nil {
			uc.logger.Error("failed to publish paste view", "paste_id", pasteID, "error", err)
		}
	}()
}

// Wait ждет фоновые публикации просмотров. Вызывается после остановки
// HTTP-сервера, до закрытия соединения с RabbitMQ.
func (uc *pasteUseCase) Wait() {
	uc.inflight.Wait()
}

// UploadPaste сохраняет пасту от имени текущего пользователя со снимком его username.
func (uc *pasteUseCase) UploadPaste(ctx context.Context, snap session.Snapshot, title, content string, isPrivate bool) (*domain.Paste, error) {
	if !snap.Authenticated() {
		return nil, apperr.Unauthorized(msgUploadLoginRequired)
	}

	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, apperr.Validation(msgTitleContentRequired)
	}

	paste := &domain.Paste{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		IsPrivate: isPrivate,
		UserID:    snap.User.ID,
		Username:  snap.Username(),
		Views:     0,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.pastes.CreatePaste(ctx, paste); err != nil {
		return nil, apperr.Backend(err)
	}

	uc.logger.Info("paste uploaded", "paste_id", paste.ID, "user_id", paste.UserID, "private", isPrivate)
	return paste, nil
}

func (uc *pasteUseCase) RecordView(ctx context.Context, payload payloads.PasteViewPayload) error {
	if payload.PasteID == uuid.Nil {
		return fmt.Errorf("usecase: empty paste id")
	}
	return uc.pastes.IncrementPasteViews(ctx, payload.PasteID)
}
