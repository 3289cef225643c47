package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PasteApp/internal/domain"
)

func seedPastes(t *testing.T, pastes *memPastes) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		title, content string
		private        bool
	}{
		{"Go Tips", "use context everywhere", false},
		{"Shopping list", "milk, GO-karts", false},
		{"secret go notes", "hidden", true},
		{"Recipes", "pasta", false},
	}
	for i, r := range rows {
		require.NoError(t, pastes.CreatePaste(context.Background(), &domain.Paste{
			ID: uuid.New(), Title: r.title, Content: r.content, IsPrivate: r.private,
			UserID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
}

func TestLoadAllPastes_PublicNewestFirst(t *testing.T) {
	pastes := newMemPastes()
	seedPastes(t, pastes)
	uc := NewListingUseCase(pastes, newMemProfiles(), &memPresence{}, discardLogger())

	all, err := uc.LoadAllPastes(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Recipes", all[0].Title)
	for _, p := range all {
		assert.False(t, p.IsPrivate)
	}
}

func TestSearchPastes_SubsetOfListing(t *testing.T) {
	pastes := newMemPastes()
	seedPastes(t, pastes)
	uc := NewListingUseCase(pastes, newMemProfiles(), &memPresence{}, discardLogger())
	ctx := context.Background()

	all, err := uc.LoadAllPastes(ctx)
	require.NoError(t, err)
	allIDs := map[uuid.UUID]bool{}
	for _, p := range all {
		allIDs[p.ID] = true
	}

	for _, tc := range []struct {
		query       string
		searchTitle bool
	}{
		{"go", true},
		{"GO", false},
		{"pasta", false},
		{"nothing-matches", true},
	} {
		found, err := uc.SearchPastes(ctx, tc.query, tc.searchTitle)
		require.NoError(t, err)
		for _, p := range found {
			assert.True(t, allIDs[p.ID], "search result must be a public listing row")
			field := p.Content
			if tc.searchTitle {
				field = p.Title
			}
			assert.Contains(t, strings.ToLower(field), strings.ToLower(tc.query))
		}
	}

	byTitle, err := uc.SearchPastes(ctx, "go", true)
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)
}

func TestSearchPastes_EmptyQueryListsAll(t *testing.T) {
	pastes := newMemPastes()
	seedPastes(t, pastes)
	uc := NewListingUseCase(pastes, newMemProfiles(), &memPresence{}, discardLogger())

	all, err := uc.LoadAllPastes(context.Background())
	require.NoError(t, err)
	found, err := uc.SearchPastes(context.Background(), "   ", true)
	require.NoError(t, err)
	assert.Equal(t, all, found)
}

func TestLoadUsers_MarksOnline(t *testing.T) {
	profiles := newMemProfiles()
	var ids []uuid.UUID
	for i := range 3 {
		u := domain.User{ID: uuid.New(), Email: string(rune('a'+i)) + "@x.com"}
		p := domain.NewDefaultProfile(u, time.Now().Add(time.Duration(i)*time.Minute))
		require.NoError(t, profiles.UpsertProfile(context.Background(), &p))
		ids = append(ids, u.ID)
	}
	presence := &memPresence{ids: []uuid.UUID{ids[1]}}
	uc := NewListingUseCase(newMemPastes(), profiles, presence, discardLogger())

	cards, err := uc.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.Equal(t, c.Profile.ID == ids[1], c.Online)
	}
}

func TestLoadUsers_PresenceFailureTolerated(t *testing.T) {
	profiles := newMemProfiles()
	p := domain.NewDefaultProfile(domain.User{ID: uuid.New(), Email: "a@x.com"}, time.Now())
	require.NoError(t, profiles.UpsertProfile(context.Background(), &p))
	uc := NewListingUseCase(newMemPastes(), profiles, &memPresence{err: errors.New("redis down")}, discardLogger())

	cards, err := uc.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.False(t, cards[0].Online)
}

func TestStats(t *testing.T) {
	pastes := newMemPastes()
	seedPastes(t, pastes)
	profiles := newMemProfiles()
	p := domain.NewDefaultProfile(domain.User{ID: uuid.New(), Email: "a@x.com"}, time.Now())
	require.NoError(t, profiles.UpsertProfile(context.Background(), &p))
	uc := NewListingUseCase(pastes, profiles, &memPresence{}, discardLogger())

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{TotalUsers: 1, TotalPastes: 3}, stats)
}
