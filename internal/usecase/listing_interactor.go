package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/google/uuid"
)

// UsersPageLimit — сколько профилей показывает страница пользователей.
const UsersPageLimit = 50

type listingUseCase struct {
	pastes   ports.PasteStorage
	profiles ports.ProfileStorage
	presence ports.PresenceStore
	logger   *slog.Logger
}

func NewListingUseCase(
	pastes ports.PasteStorage,
	profiles ports.ProfileStorage,
	presence ports.PresenceStore,
	logger *slog.Logger,
) ListingUseCase {
	return &listingUseCase{pastes: pastes, profiles: profiles, presence: presence, logger: logger}
}

func (uc *listingUseCase) LoadAllPastes(ctx context.Context) ([]domain.PasteListItem, error) {
	pastes, err := uc.pastes.ListPublicPastes(ctx, domain.PasteFilter{})
	if err != nil {
		return nil, fmt.Errorf("usecase: list pastes: %w", err)
	}
	return pastes, nil
}

func (uc *listingUseCase) SearchPastes(ctx context.Context, query string, searchTitle bool) ([]domain.PasteListItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.LoadAllPastes(ctx)
	}

	pastes, err := uc.pastes.ListPublicPastes(ctx, domain.PasteFilter{Query: query, SearchTitle: searchTitle})
	if err != nil {
		return nil, fmt.Errorf("usecase: search pastes: %w", err)
	}
	return pastes, nil
}

// LoadUsers отмечает онлайн по последнему снимку присутствия.
// Недоступный снимок не мешает показать карточки.
func (uc *listingUseCase) LoadUsers(ctx context.Context) ([]domain.UserCard, error) {
	profiles, err := uc.profiles.ListRecentProfiles(ctx, UsersPageLimit)
	if err != nil {
		return nil, fmt.Errorf("usecase: list users: %w", err)
	}

	online := map[uuid.UUID]bool{}
	ids, err := uc.presence.LoadOnline(ctx)
	if err != nil {
		uc.logger.Error("failed to load presence snapshot", "error", err)
	}
	for _, id := range ids {
		online[id] = true
	}

	cards := make([]domain.UserCard, 0, len(profiles))
	for _, p := range profiles {
		cards = append(cards, domain.UserCard{Profile: p, Online: online[p.ID]})
	}
	return cards, nil
}

func (uc *listingUseCase) Stats(ctx context.Context) (domain.Stats, error) {
	users, err := uc.profiles.CountProfiles(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("usecase: count users: %w", err)
	}
	pastes, err := uc.pastes.CountPublicPastes(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("usecase: count pastes: %w", err)
	}
	return domain.Stats{TotalUsers: users, TotalPastes: pastes}, nil
}
